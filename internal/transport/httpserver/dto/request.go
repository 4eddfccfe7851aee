// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"classifieds-service/internal/domain"
)

// ListingsRequest represents the query parameters for a category listing
// request. Filter values are free-form: unknown or malformed values
// relax the filter instead of rejecting the request.
type ListingsRequest struct {
	Country        string `query:"country" validate:"omitempty,oneof=vietnam thailand india indonesia"`
	City           string `query:"city" validate:"max=100"`
	Subcategory    string `query:"subcategory" validate:"max=100"`
	ShowHidden     string `query:"show_hidden" validate:"omitempty,oneof=0 1"`
	KidsType       string `query:"kids_type" validate:"max=100"`
	MaxAge         string `query:"max_age" validate:"max=10"`
	Destination    string `query:"destination" validate:"max=100"`
	Nationality    string `query:"nationality" validate:"max=100"`
	Days           string `query:"days" validate:"max=10"`
	MedicineType   string `query:"medicine_type" validate:"max=100"`
	TransportType  string `query:"transport_type" validate:"max=100"`
	DealType       string `query:"type" validate:"max=100"`
	Model          string `query:"model" validate:"max=100"`
	Year           string `query:"year" validate:"max=10"`
	PriceMin       string `query:"price_min" validate:"max=20"`
	PriceMax       string `query:"price_max" validate:"max=20"`
	RealEstateCity string `query:"realestate_city" validate:"max=100"`
	ListingType    string `query:"listing_type" validate:"max=100"`
	SourceGroup    string `query:"source_group" validate:"max=100"`
	Sort           string `query:"sort" validate:"omitempty,oneof=price_asc price_desc"`
}

// ToParams converts the request to domain query parameters.
func (r *ListingsRequest) ToParams() domain.Params {
	return domain.Params{
		City:           r.City,
		Subcategory:    r.Subcategory,
		ShowHidden:     r.ShowHidden == "1",
		KidsType:       r.KidsType,
		MaxAge:         r.MaxAge,
		Destination:    r.Destination,
		Nationality:    r.Nationality,
		Days:           r.Days,
		MedicineType:   r.MedicineType,
		TransportType:  r.TransportType,
		DealType:       r.DealType,
		Model:          r.Model,
		Year:           r.Year,
		PriceMin:       r.PriceMin,
		PriceMax:       r.PriceMax,
		RealEstateCity: r.RealEstateCity,
		ListingType:    r.ListingType,
		SourceGroup:    r.SourceGroup,
		Sort:           r.Sort,
	}
}

// ParseCountry resolves the request country, defaulting per config.
func ParseCountry(raw, fallback string) domain.Country {
	if c, ok := domain.ParseCountry(raw); ok {
		return c
	}
	c, _ := domain.ParseCountry(fallback)
	return c
}

// AdminRequest is the credential envelope every admin endpoint carries.
type AdminRequest struct {
	Password string `json:"password" validate:"required,max=100"`
	Country  string `json:"country" validate:"omitempty,oneof=vietnam thailand india indonesia"`
}

// AuthRequest represents POST /api/admin/auth.
type AuthRequest struct {
	Password string `json:"password" validate:"required,max=100"`
	Country  string `json:"country" validate:"omitempty,max=50"`
}

// GetListingRequest represents POST /api/admin/get-listing.
type GetListingRequest struct {
	AdminRequest
	Category  string `json:"category" validate:"required,max=50"`
	ListingID string `json:"listing_id" validate:"required,max=100"`
}

// DeleteListingRequest represents POST /api/admin/delete-listing.
type DeleteListingRequest struct {
	AdminRequest
	Category  string `json:"category" validate:"required,max=50"`
	ListingID string `json:"listing_id" validate:"required,max=100"`
}

// MoveListingRequest represents POST /api/admin/move-listing.
type MoveListingRequest struct {
	AdminRequest
	FromCategory string `json:"from_category" validate:"required,max=50"`
	ToCategory   string `json:"to_category" validate:"required,max=50"`
	ListingID    string `json:"listing_id" validate:"required,max=100"`
}

// ToggleVisibilityRequest represents POST /api/admin/toggle-visibility.
type ToggleVisibilityRequest struct {
	AdminRequest
	Category  string `json:"category" validate:"required,max=50"`
	ListingID string `json:"listing_id" validate:"required,max=100"`
}

// BulkHideRequest represents POST /api/admin/bulk-hide. An empty
// category spans every category.
type BulkHideRequest struct {
	AdminRequest
	Category    string `json:"category" validate:"omitempty,max=50"`
	ContactName string `json:"contact_name" validate:"required,max=200"`
	Hide        *bool  `json:"hide"`
}

// EditListingRequest represents POST /api/admin/edit-listing.
type EditListingRequest struct {
	AdminRequest
	Category  string         `json:"category" validate:"required,max=50"`
	ListingID string         `json:"listing_id" validate:"required,max=100"`
	Updates   map[string]any `json:"updates"`
}

// ModerateRequest represents POST /api/admin/moderate.
type ModerateRequest struct {
	AdminRequest
	ListingID string `json:"listing_id" validate:"required,max=100"`
	Action    string `json:"action" validate:"required,oneof=approve reject"`
}

// TranslateRequest represents POST /api/translate.
type TranslateRequest struct {
	Texts []string `json:"texts" validate:"max=50,dive,max=5000"`
	Lang  string   `json:"lang" validate:"omitempty,max=10"`
}
