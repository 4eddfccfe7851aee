// Package service provides application use cases.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"classifieds-service/internal/domain"
)

// onlineEstimates is the advertised per-country portal audience shown on
// the status endpoint.
var onlineEstimates = map[domain.Country]int{
	domain.CountryVietnam:   342,
	domain.CountryThailand:  287,
	domain.CountryIndia:     156,
	domain.CountryIndonesia: 419,
}

// StatusReport summarizes a country's data volume.
type StatusReport struct {
	ParserStatus  string         `json:"parser_status"`
	TotalItems    int            `json:"total_items"`
	TotalListings int            `json:"total_listings"`
	Categories    map[string]int `json:"categories"`
	LastUpdate    string         `json:"last_update"`
	Country       string         `json:"country"`
	OnlineCount   int            `json:"online_count"`
}

// ListingService handles the public read surface: category listings,
// count aggregations and the status report.
type ListingService struct {
	store  domain.Store
	photos domain.PhotoResolver
	logger *zap.Logger
	now    func() time.Time
}

// NewListingService creates a new ListingService.
func NewListingService(store domain.Store, photos domain.PhotoResolver, logger *zap.Logger) *ListingService {
	return &ListingService{
		store:  store,
		photos: photos,
		logger: logger,
		now:    time.Now,
	}
}

// GetListings returns a category's visible listings for a country,
// filtered and sorted per params, with photo URLs refreshed. The
// "admin" pseudo-category returns every category flattened, each item
// tagged with its category. Returned listings are copies: the store's
// cached data is shared between concurrent requests and must never be
// written to.
func (s *ListingService) GetListings(ctx context.Context, country domain.Country, category string, params domain.Params) []domain.Listing {
	data := s.store.Load(country)

	if category == "admin" {
		return s.adminView(data, params.ShowHidden)
	}

	resolved := string(domain.ResolveCategory(category))
	result := cloneAll(domain.Apply(resolved, data[resolved], params))

	s.refreshPhotoURLs(ctx, result)

	s.logger.Debug("listings served",
		zap.String("country", string(country)),
		zap.String("category", resolved),
		zap.Int("count", len(result)),
	)

	return result
}

// adminView flattens every category into one sequence for the
// moderation frontend, tagging each copy with its source category.
func (s *ListingService) adminView(data domain.CategoryMap, showHidden bool) []domain.Listing {
	var all []domain.Listing
	for _, cat := range domain.Categories() {
		for _, it := range data[string(cat)] {
			if !showHidden && it.Hidden() {
				continue
			}
			cp := it.Clone()
			cp["_category"] = string(cat)
			all = append(all, cp)
		}
	}
	if all == nil {
		all = []domain.Listing{}
	}
	return all
}

// refreshPhotoURLs swaps each durable photo reference for a fresh
// display URL. Resolution failures keep the stale URL. Items must be
// caller-owned copies.
func (s *ListingService) refreshPhotoURLs(ctx context.Context, items []domain.Listing) {
	for _, item := range items {
		fileID := item.Str("telegram_file_id")
		if fileID == "" {
			continue
		}
		url, err := s.photos.ResolvePhotoURL(ctx, fileID)
		if err != nil || url == "" {
			continue
		}
		item["image_url"] = url
	}
}

func cloneAll(items []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// AddListing inserts a listing directly into an existing category,
// stamping an insertion time and minting an id when absent.
func (s *ListingService) AddListing(_ context.Context, country domain.Country, listing domain.Listing) error {
	category := listing.Str("category")

	// Shallow clone: the cached map is shared with concurrent readers,
	// and Clone's exact-capacity slices force append to reallocate.
	data := s.store.Load(country).Clone()
	if _, ok := data[category]; !ok {
		return ErrUnknownCategory
	}

	listing["added_at"] = s.now().Format(time.RFC3339)
	if listing.ID() == "" {
		listing["id"] = fmt.Sprintf("%s_%s_%s", country, category, uuid.NewString()[:8])
	}

	data[category] = append(data[category], listing)
	return s.store.Save(country, data)
}

// CityCounts returns per-city visible listing counts for a category.
// A listing mentioning several cities counts toward each of them.
func (s *ListingService) CityCounts(country domain.Country, category string) map[string]int {
	resolved := string(domain.ResolveCategory(category))

	data := s.store.Load(country)
	items, ok := data[resolved]
	if !ok {
		return map[string]int{}
	}

	return domain.CountByCity(visible(items))
}

// MedicineTypeCounts returns visible medicine listings bucketed by type.
func (s *ListingService) MedicineTypeCounts(country domain.Country) map[string]int {
	data := s.store.Load(country)
	items, ok := data[string(domain.CategoryMedicine)]
	if !ok {
		return map[string]int{}
	}

	return domain.CountMedicineTypes(visible(items))
}

// KidsTypeCounts returns visible kids listings bucketed by type.
func (s *ListingService) KidsTypeCounts(country domain.Country) map[string]int {
	data := s.store.Load(country)
	items, ok := data[string(domain.CategoryKids)]
	if !ok {
		return map[string]int{}
	}

	return domain.CountKidsTypes(visible(items))
}

// Status reports data volume per category for a country. The chat
// category is excluded from the listing total since it is not
// classifieds inventory.
func (s *ListingService) Status(country domain.Country) StatusReport {
	data := s.store.Load(country)

	categories := make(map[string]int, len(data))
	totalItems := 0
	totalListings := 0
	for cat, items := range data {
		categories[cat] = len(items)
		totalItems += len(items)
		if cat != string(domain.CategoryChat) {
			totalListings += len(items)
		}
	}

	online, ok := onlineEstimates[country]
	if !ok {
		online = 100
	}

	return StatusReport{
		ParserStatus:  "connected",
		TotalItems:    totalItems,
		TotalListings: totalListings,
		Categories:    categories,
		LastUpdate:    s.now().Format(time.RFC3339),
		Country:       string(country),
		OnlineCount:   online,
	}
}

func visible(items []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, 0, len(items))
	for _, it := range items {
		if !it.Hidden() {
			out = append(out, it)
		}
	}
	return out
}
