// Package handler provides HTTP handlers for the API.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"classifieds-service/internal/app/service"
	"classifieds-service/internal/domain"
	"classifieds-service/internal/transport/httpserver/dto"
	"classifieds-service/internal/validator"
)

// ListingHandler handles the public read surface.
type ListingHandler struct {
	listings       *service.ListingService
	validator      *validator.Validator
	defaultCountry string
	logger         *zap.Logger
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(svc *service.ListingService, v *validator.Validator, defaultCountry string, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{
		listings:       svc,
		validator:      v,
		defaultCountry: defaultCountry,
		logger:         logger,
	}
}

// GetListings handles GET /api/listings/:category
func (h *ListingHandler) GetListings(c *fiber.Ctx) error {
	var req dto.ListingsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	country := dto.ParseCountry(req.Country, h.defaultCountry)
	result := h.listings.GetListings(c.Context(), country, c.Params("category"), req.ToParams())

	return c.JSON(result)
}

// AddListing handles POST /api/add-listing
func (h *ListingHandler) AddListing(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	rawCountry, _ := body["country"].(string)
	country := dto.ParseCountry(rawCountry, h.defaultCountry)

	if err := h.listings.AddListing(c.Context(), country, domain.Listing(body)); err != nil {
		if err == service.ErrUnknownCategory {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "invalid category",
				Code:  "INVALID_CATEGORY",
			})
		}
		h.logger.Error("add listing failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to add listing",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "Объявление добавлено"})
}

// CityCounts handles GET /api/city-counts/:category
func (h *ListingHandler) CityCounts(c *fiber.Ctx) error {
	country := dto.ParseCountry(c.Query("country"), h.defaultCountry)

	return c.JSON(h.listings.CityCounts(country, c.Params("category")))
}

// MedicineTypeCounts handles GET /api/medicine-type-counts
func (h *ListingHandler) MedicineTypeCounts(c *fiber.Ctx) error {
	country := dto.ParseCountry(c.Query("country"), h.defaultCountry)

	return c.JSON(h.listings.MedicineTypeCounts(country))
}

// KidsTypeCounts handles GET /api/kids-type-counts
func (h *ListingHandler) KidsTypeCounts(c *fiber.Ctx) error {
	country := dto.ParseCountry(c.Query("country"), h.defaultCountry)

	return c.JSON(h.listings.KidsTypeCounts(country))
}

// Status handles GET /api/status
func (h *ListingHandler) Status(c *fiber.Ctx) error {
	country := dto.ParseCountry(c.Query("country"), h.defaultCountry)

	return c.JSON(h.listings.Status(country))
}
