// Package telegram implements the Bot API client used for moderation
// notifications and durable photo storage in a private channel.
package telegram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"classifieds-service/internal/infra/httpclient"
)

// captionLimit is the Bot API's maximum caption length for sendPhoto.
const captionLimit = 1024

// Config holds the Bot API client settings.
type Config struct {
	BotToken     string
	NotifyChatID string
	PhotoChannel string
}

// apiResponse is the Bot API envelope shared by every method.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      result `json:"result"`
}

type result struct {
	FilePath string      `json:"file_path"`
	Photo    []photoSize `json:"photo"`
}

type photoSize struct {
	FileID   string `json:"file_id"`
	FileSize int64  `json:"file_size"`
}

// Client talks to the Telegram Bot API. A disabled client (empty bot
// token) degrades to no-ops so local setups work without credentials.
type Client struct {
	cfg    Config
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new Bot API client.
func New(cfg Config, httpCfg httpclient.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: httpclient.NewRestyClient(httpCfg),
		cb:     httpclient.NewCircuitBreaker[*resty.Response]("telegram", httpCfg.CB),
		logger: logger,
	}
}

func (c *Client) enabled() bool {
	return c.cfg.BotToken != ""
}

func (c *Client) methodPath(method string) string {
	return fmt.Sprintf("/bot%s/%s", c.cfg.BotToken, method)
}

// Notify sends an HTML-formatted message to the moderation chat. An
// unconfigured client is a silent no-op so a missing token never blocks
// a submission.
func (c *Client) Notify(ctx context.Context, message string) error {
	if !c.enabled() || c.cfg.NotifyChatID == "" {
		return nil
	}

	_, err := c.cb.Execute(func() (*resty.Response, error) {
		var result apiResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"chat_id":    c.cfg.NotifyChatID,
				"text":       message,
				"parse_mode": "HTML",
			}).
			SetResult(&result).
			Post(c.methodPath("sendMessage"))
		if err != nil {
			return nil, err
		}
		if r.IsError() || !result.OK {
			return nil, fmt.Errorf("sendMessage failed: %s", result.Description)
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("telegram notification failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return fmt.Errorf("sending notification: %w", err)
	}

	return nil
}

// UploadPhoto sends image bytes to the photo channel and returns the
// file_id of the largest rendition, which is the durable handle for the
// photo.
func (c *Client) UploadPhoto(ctx context.Context, image []byte, caption string) (string, error) {
	if !c.enabled() || c.cfg.PhotoChannel == "" {
		return "", fmt.Errorf("telegram photo storage not configured")
	}

	if len(caption) > captionLimit {
		caption = caption[:captionLimit]
	}

	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var result apiResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetFileReader("photo", "photo.jpg", bytes.NewReader(image)).
			SetFormData(map[string]string{
				"chat_id": c.cfg.PhotoChannel,
				"caption": caption,
			}).
			SetResult(&result).
			Post(c.methodPath("sendPhoto"))
		if err != nil {
			return nil, err
		}
		if r.IsError() || !result.OK {
			return nil, fmt.Errorf("sendPhoto failed: %s", result.Description)
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("telegram photo upload failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return "", fmt.Errorf("uploading photo: %w", err)
	}

	result := resp.Result().(*apiResponse)
	var largest photoSize
	for _, p := range result.Result.Photo {
		if p.FileSize >= largest.FileSize {
			largest = p
		}
	}
	if largest.FileID == "" {
		return "", fmt.Errorf("sendPhoto response carried no photo sizes")
	}

	c.logger.Info("photo uploaded to channel",
		zap.Int("bytes", len(image)),
		zap.Int("renditions", len(result.Result.Photo)),
	)

	return largest.FileID, nil
}

// ResolvePhotoURL exchanges a file_id for a short-lived download URL via
// getFile. Returns an empty string when the client is disabled or the
// file_id is blank.
func (c *Client) ResolvePhotoURL(ctx context.Context, fileID string) (string, error) {
	if !c.enabled() || fileID == "" {
		return "", nil
	}

	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var result apiResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("file_id", fileID).
			SetResult(&result).
			Get(c.methodPath("getFile"))
		if err != nil {
			return nil, err
		}
		if r.IsError() || !result.OK {
			return nil, fmt.Errorf("getFile failed: %s", result.Description)
		}

		return r, nil
	})
	if err != nil {
		return "", fmt.Errorf("resolving photo url: %w", err)
	}

	result := resp.Result().(*apiResponse)
	if result.Result.FilePath == "" {
		return "", fmt.Errorf("getFile response carried no file_path")
	}

	return fmt.Sprintf("%s/file/bot%s/%s", c.client.BaseURL, c.cfg.BotToken, result.Result.FilePath), nil
}
