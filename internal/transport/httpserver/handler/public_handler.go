package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"classifieds-service/internal/app/service"
	"classifieds-service/internal/captcha"
	"classifieds-service/internal/infra/redis"
	"classifieds-service/internal/transport/httpserver/dto"
	"classifieds-service/internal/validator"
)

const maxPhotoBytes = 1024 * 1024

// PublicHandler handles the submission pipeline entry points and the
// small utility endpoints: captcha, translate and presence.
type PublicHandler struct {
	moderation *service.ModerationService
	translate  *service.TranslateService
	captcha    *captcha.Store
	presence   *redis.Presence
	validator  *validator.Validator
	logger     *zap.Logger
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(
	moderation *service.ModerationService,
	translate *service.TranslateService,
	captchaStore *captcha.Store,
	presence *redis.Presence,
	v *validator.Validator,
	logger *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		moderation: moderation,
		translate:  translate,
		captcha:    captchaStore,
		presence:   presence,
		validator:  v,
		logger:     logger,
	}
}

// Captcha handles GET /api/captcha
func (h *PublicHandler) Captcha(c *fiber.Ctx) error {
	return c.JSON(h.captcha.Generate())
}

// SubmitListing handles POST /api/submit-listing. The form is
// multipart: text fields plus up to four photos converted to inline
// data URLs for the moderation queue.
func (h *PublicHandler) SubmitListing(c *fiber.Ctx) error {
	sub := service.Submission{
		Country:       c.FormValue("country"),
		Category:      c.FormValue("category"),
		Title:         c.FormValue("title"),
		Description:   c.FormValue("description"),
		Price:         c.FormValue("price"),
		City:          c.FormValue("city"),
		Whatsapp:      c.FormValue("whatsapp"),
		Telegram:      c.FormValue("telegram"),
		Rooms:         c.FormValue("rooms"),
		Area:          c.FormValue("area"),
		Location:      c.FormValue("location"),
		ListingType:   c.FormValue("listing_type"),
		ContactName:   c.FormValue("contact_name"),
		CaptchaToken:  c.FormValue("captcha_token"),
		CaptchaAnswer: c.FormValue("captcha_answer"),
		Extra:         extraFields(c),
	}

	images, err := collectPhotos(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "PHOTO_TOO_LARGE",
		})
	}
	sub.Images = images

	if err := h.moderation.Submit(c.Context(), sub); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCaptcha):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "Неверная капча",
				Code:  "INVALID_CAPTCHA",
			})
		case errors.Is(err, service.ErrMissingFields):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "Заполните название, описание и Telegram контакт",
				Code:  "MISSING_FIELDS",
			})
		default:
			h.logger.Error("submission failed", zap.Error(err))

			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "failed to queue submission",
				Code:  "INTERNAL_ERROR",
			})
		}
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "Объявление отправлено на модерацию"})
}

// Translate handles POST /api/translate
func (h *PublicHandler) Translate(c *fiber.Ctx) error {
	var req dto.TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	return c.JSON(dto.TranslateResponse{
		Translations: h.translate.Translate(c.Context(), req.Texts, req.Lang),
	})
}

// Ping handles GET /api/ping. Marks the caller online and returns the
// current count.
func (h *PublicHandler) Ping(c *fiber.Ctx) error {
	visitorID := c.Query("uid")
	if visitorID == "" {
		visitorID = c.IP()
	}

	count, err := h.presence.Touch(c.Context(), visitorID)
	if err != nil {
		h.logger.Warn("presence touch failed", zap.Error(err))
		count = 0
	}

	return c.JSON(dto.OnlineResponse{Online: count})
}

// Online handles GET /api/online
func (h *PublicHandler) Online(c *fiber.Ctx) error {
	count, err := h.presence.CountOnline(c.Context())
	if err != nil {
		h.logger.Warn("presence count failed", zap.Error(err))
		count = 0
	}

	return c.JSON(dto.OnlineResponse{Online: count})
}

// extraFields picks up the category-specific form fields.
func extraFields(c *fiber.Ctx) map[string]string {
	extra := make(map[string]string)
	pick := func(names ...string) {
		for _, name := range names {
			if v := c.FormValue(name); v != "" {
				extra[name] = v
			}
		}
	}

	switch c.FormValue("category") {
	case "money_exchange":
		pick("pairs", "address")
	case "visas":
		pick("destination", "citizenship")
	case "marketplace":
		pick("marketplace_category")
	case "photosession", "news":
		pick("photo_type")
	case "medicine":
		pick("medicine_type")
	}

	return extra
}

// collectPhotos reads uploaded photos and converts them to data URLs.
// The "photos" list takes priority over the legacy photo_0..photo_3
// field names.
func collectPhotos(c *fiber.Ctx) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}

	files := form.File["photos"]
	if len(files) == 0 {
		for i := 0; i < 4; i++ {
			if fhs := form.File[fmt.Sprintf("photo_%d", i)]; len(fhs) > 0 {
				files = append(files, fhs[0])
			}
		}
	}

	var images []string
	for i, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}

		data, err := readPhoto(fh)
		if err != nil {
			return nil, err
		}
		if len(data) > maxPhotoBytes {
			return nil, fmt.Errorf("Фото %d превышает 1 МБ", i+1)
		}

		ext := "jpg"
		if idx := strings.LastIndex(fh.Filename, "."); idx >= 0 {
			ext = strings.ToLower(fh.Filename[idx+1:])
		}
		images = append(images, fmt.Sprintf("data:image/%s;base64,%s", ext, base64.StdEncoding.EncodeToString(data)))
	}

	return images, nil
}

func readPhoto(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	defer f.Close()

	return io.ReadAll(f)
}
