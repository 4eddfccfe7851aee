// Package gemini implements the Google Generative Language API client
// used for listing translation.
package gemini

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"classifieds-service/internal/infra/httpclient"
)

// Config holds the generation settings.
type Config struct {
	APIKey string
	Model  string
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Client calls the generateContent endpoint.
type Client struct {
	cfg    Config
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new Generative Language API client.
func New(cfg Config, httpCfg httpclient.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: httpclient.NewRestyClient(httpCfg),
		cb:     httpclient.NewCircuitBreaker[*resty.Response]("gemini", httpCfg.CB),
		logger: logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// GenerateText submits a prompt and returns the first candidate's text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("generative API key not configured")
	}

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.3,
			MaxOutputTokens: 8000,
		},
	}

	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var result generateResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("key", c.cfg.APIKey).
			SetBody(body).
			SetResult(&result).
			Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.cfg.Model))
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("generateContent returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("text generation failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return "", fmt.Errorf("generating text: %w", err)
	}

	result := resp.Result().(*generateResponse)
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generateContent response carried no candidates")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
