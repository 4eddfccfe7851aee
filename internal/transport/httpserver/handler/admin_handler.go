package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"classifieds-service/internal/app/service"
	"classifieds-service/internal/store"
	"classifieds-service/internal/transport/httpserver/dto"
	"classifieds-service/internal/validator"
)

// AdminHandler handles moderation and data management endpoints. Every
// endpoint re-checks the password, there is no session state.
type AdminHandler struct {
	admin          *service.AdminService
	moderation     *service.ModerationService
	validator      *validator.Validator
	defaultCountry string
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	admin *service.AdminService,
	moderation *service.ModerationService,
	v *validator.Validator,
	defaultCountry string,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		admin:          admin,
		moderation:     moderation,
		validator:      v,
		defaultCountry: defaultCountry,
		logger:         logger,
	}
}

// Auth handles POST /api/admin/auth
func (h *AdminHandler) Auth(c *fiber.Ctx) error {
	var req dto.AuthRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}

	scope, err := h.admin.Authenticate(req.Password, req.Country)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(dto.AuthResponse{Success: true, Authenticated: true, Country: scope})
}

// GetListing handles POST /api/admin/get-listing
func (h *AdminHandler) GetListing(c *fiber.Ctx) error {
	var req dto.GetListingRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}

	country := dto.ParseCountry(req.Country, h.defaultCountry)
	listing, err := h.admin.Get(req.Password, country, req.Category, req.ListingID)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(listing)
}

// DeleteListing handles POST /api/admin/delete-listing
func (h *AdminHandler) DeleteListing(c *fiber.Ctx) error {
	var req dto.DeleteListingRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}

	country := dto.ParseCountry(req.Country, h.defaultCountry)
	if err := h.admin.Delete(req.Password, country, req.Category, req.ListingID); err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "Объявление удалено"})
}

// MoveListing handles POST /api/admin/move-listing
func (h *AdminHandler) MoveListing(c *fiber.Ctx) error {
	var req dto.MoveListingRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}

	country := dto.ParseCountry(req.Country, h.defaultCountry)
	if err := h.admin.Move(req.Password, country, req.FromCategory, req.ToCategory, req.ListingID); err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "Объявление перемещено"})
}

// ToggleVisibility handles POST /api/admin/toggle-visibility
func (h *AdminHandler) ToggleVisibility(c *fiber.Ctx) error {
	var req dto.ToggleVisibilityRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}

	country := dto.ParseCountry(req.Country, h.defaultCountry)
	hidden, err := h.admin.ToggleVisibility(req.Password, country, req.Category, req.ListingID)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(dto.ToggleVisibilityResponse{Success: true, Hidden: hidden})
}

// BulkHide handles POST /api/admin/bulk-hide
func (h *AdminHandler) BulkHide(c *fiber.Ctx) error {
	var req dto.BulkHideRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}

	hide := true
	if req.Hide != nil {
		hide = *req.Hide
	}

	country := dto.ParseCountry(req.Country, h.defaultCountry)
	count, err := h.admin.BulkSetHidden(req.Password, country, req.Category, req.ContactName, hide)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Count: count})
}

// EditListing handles POST /api/admin/edit-listing
func (h *AdminHandler) EditListing(c *fiber.Ctx) error {
	var req dto.EditListingRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}

	country := dto.ParseCountry(req.Country, h.defaultCountry)
	if err := h.admin.Edit(c.Context(), req.Password, country, req.Category, req.ListingID, req.Updates); err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "Объявление обновлено"})
}

// Pending handles POST /api/admin/pending
func (h *AdminHandler) Pending(c *fiber.Ctx) error {
	var req dto.AdminRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}

	country := dto.ParseCountry(req.Country, h.defaultCountry)
	items, err := h.moderation.Pending(req.Password, country)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(fiber.Map{"listings": items})
}

// Moderate handles POST /api/admin/moderate
func (h *AdminHandler) Moderate(c *fiber.Ctx) error {
	var req dto.ModerateRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}

	country := dto.ParseCountry(req.Country, h.defaultCountry)

	var err error
	if req.Action == "approve" {
		err = h.moderation.Approve(c.Context(), req.Password, country, req.ListingID)
	} else {
		err = h.moderation.Reject(c.Context(), req.Password, country, req.ListingID)
	}
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *AdminHandler) parse(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	return nil
}

func (h *AdminHandler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "invalid password",
			Code:  "UNAUTHORIZED",
		})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: "access to this country is not allowed",
			Code:  "FORBIDDEN",
		})
	case errors.Is(err, service.ErrUnknownCategory), errors.Is(err, service.ErrListingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "not found",
			Code:  "NOT_FOUND",
		})
	case errors.Is(err, store.ErrLockTimeout):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: "store is busy, retry shortly",
			Code:  "STORE_BUSY",
		})
	default:
		h.logger.Error("admin operation failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "operation failed",
			Code:  "INTERNAL_ERROR",
		})
	}
}
