package service

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"classifieds-service/internal/auth"
	"classifieds-service/internal/domain"
)

// editableFields are the plain listing fields a moderator may rewrite.
// An empty submitted value clears the field.
var editableFields = []string{
	"rooms", "date", "whatsapp", "telegram", "contact_name",
	"listing_type", "city", "google_maps", "google_rating", "kitchen",
	"restaurant_type", "price_category", "kids_category", "kids_type",
	"currency_pairs",
}

// AdminService handles authenticated moderation of the live data:
// deletion, edits, category moves and visibility control. Every
// mutation deep-clones the loaded data first; the store's cached maps
// are shared with concurrent readers and must stay untouched until
// Save swaps them out.
type AdminService struct {
	store    domain.Store
	auth     *auth.Authenticator
	uploader domain.PhotoUploader
	photos   domain.PhotoResolver
	logger   *zap.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(store domain.Store, authenticator *auth.Authenticator, uploader domain.PhotoUploader, photos domain.PhotoResolver, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:    store,
		auth:     authenticator,
		uploader: uploader,
		photos:   photos,
		logger:   logger,
	}
}

// Authenticate resolves a password to its country scope.
func (s *AdminService) Authenticate(password, country string) (string, error) {
	scope, ok := s.auth.Authenticate(password, country)
	if !ok {
		return "", ErrUnauthorized
	}
	return scope, nil
}

// authorize validates the password and checks it covers the country.
func (s *AdminService) authorize(password string, country domain.Country) error {
	scope, ok := s.auth.Authenticate(password, string(country))
	if !ok {
		return ErrUnauthorized
	}
	if !auth.CanAccess(scope, string(country)) {
		return ErrForbidden
	}
	return nil
}

// Get returns a copy of a single listing for the moderation frontend.
func (s *AdminService) Get(password string, country domain.Country, category, listingID string) (domain.Listing, error) {
	if err := s.authorize(password, country); err != nil {
		return nil, err
	}

	resolved := string(domain.ResolveCategory(category))
	data := s.store.Load(country)
	items, ok := data[resolved]
	if !ok {
		return nil, ErrUnknownCategory
	}

	for _, it := range items {
		if it.ID() == listingID {
			return it.Clone(), nil
		}
	}

	return nil, ErrListingNotFound
}

// Delete removes a listing from a category.
func (s *AdminService) Delete(password string, country domain.Country, category, listingID string) error {
	if err := s.authorize(password, country); err != nil {
		return err
	}

	resolved := string(domain.ResolveCategory(category))
	data := s.store.Load(country).CloneDeep()
	items, ok := data[resolved]
	if !ok {
		return ErrUnknownCategory
	}

	kept := make([]domain.Listing, 0, len(items))
	for _, it := range items {
		if it.ID() != listingID {
			kept = append(kept, it)
		}
	}
	data[resolved] = kept

	s.logger.Info("listing deleted",
		zap.String("country", string(country)),
		zap.String("category", resolved),
		zap.String("listing_id", listingID),
	)

	return s.store.Save(country, data)
}

// Move relocates a listing to the front of another category and
// rewrites its category tag.
func (s *AdminService) Move(password string, country domain.Country, fromCategory, toCategory, listingID string) error {
	if err := s.authorize(password, country); err != nil {
		return err
	}

	data := s.store.Load(country).CloneDeep()
	if _, ok := data[fromCategory]; !ok {
		return ErrUnknownCategory
	}
	if _, ok := data[toCategory]; !ok {
		return ErrUnknownCategory
	}

	var moved domain.Listing
	items := data[fromCategory]
	for i, it := range items {
		if it.ID() == listingID {
			moved = it
			data[fromCategory] = append(items[:i:i], items[i+1:]...)
			break
		}
	}
	if moved == nil {
		return ErrListingNotFound
	}

	moved["category"] = toCategory
	data.Insert(toCategory, moved)

	s.logger.Info("listing moved",
		zap.String("country", string(country)),
		zap.String("from", fromCategory),
		zap.String("to", toCategory),
		zap.String("listing_id", listingID),
	)

	return s.store.Save(country, data)
}

// ToggleVisibility flips a listing's hidden flag and returns the new
// state.
func (s *AdminService) ToggleVisibility(password string, country domain.Country, category, listingID string) (bool, error) {
	if err := s.authorize(password, country); err != nil {
		return false, err
	}

	resolved := string(domain.ResolveCategory(category))
	data := s.store.Load(country).CloneDeep()
	items, ok := data[resolved]
	if !ok {
		return false, ErrUnknownCategory
	}

	for _, it := range items {
		if it.ID() == listingID {
			hidden := !it.Hidden()
			it["hidden"] = hidden
			if err := s.store.Save(country, data); err != nil {
				return false, err
			}
			return hidden, nil
		}
	}

	return false, ErrListingNotFound
}

// BulkSetHidden hides or shows every listing whose contact matches the
// given substring, case-insensitively. An empty category spans all
// categories. Returns the number of affected listings.
func (s *AdminService) BulkSetHidden(password string, country domain.Country, category, contactName string, hide bool) (int, error) {
	if err := s.authorize(password, country); err != nil {
		return 0, err
	}

	data := s.store.Load(country).CloneDeep()

	var categories []string
	if category != "" {
		if _, ok := data[category]; !ok {
			return 0, ErrUnknownCategory
		}
		categories = []string{category}
	} else {
		for cat := range data {
			categories = append(categories, cat)
		}
	}

	needle := strings.ToLower(contactName)
	count := 0
	for _, cat := range categories {
		for _, it := range data[cat] {
			contact := it.LowerStr("contact_name")
			if contact == "" {
				contact = it.LowerStr("contact")
			}
			if strings.Contains(contact, needle) {
				it["hidden"] = hide
				count++
			}
		}
	}

	if err := s.store.Save(country, data); err != nil {
		return 0, err
	}

	s.logger.Info("bulk visibility change",
		zap.String("country", string(country)),
		zap.String("contact", contactName),
		zap.Bool("hide", hide),
		zap.Int("count", count),
	)

	return count, nil
}

// Edit applies field updates to a listing. Price is coerced to an
// integer and area to a float, both degrading to empty on bad input. A
// base64 data-URL image is pushed to durable photo storage.
func (s *AdminService) Edit(ctx context.Context, password string, country domain.Country, category, listingID string, updates map[string]any) error {
	if err := s.authorize(password, country); err != nil {
		return err
	}

	resolved := string(domain.ResolveCategory(category))
	data := s.store.Load(country).CloneDeep()
	items, ok := data[resolved]
	if !ok {
		return ErrUnknownCategory
	}

	for _, it := range items {
		if it.ID() != listingID {
			continue
		}

		s.applyUpdates(ctx, it, updates)
		return s.store.Save(country, data)
	}

	return ErrListingNotFound
}

func (s *AdminService) applyUpdates(ctx context.Context, it domain.Listing, updates map[string]any) {
	str := func(key string) (string, bool) {
		v, ok := updates[key]
		if !ok {
			return "", false
		}
		if sv, ok := v.(string); ok {
			return sv, true
		}
		return "", false
	}

	if v, ok := updates["title"]; ok {
		it["title"] = v
	}
	if v, ok := updates["description"]; ok {
		it["description"] = v
	}

	if v, ok := str("price"); ok {
		if n, err := strconv.Atoi(v); err == nil && v != "" {
			it["price"] = n
		} else {
			it["price"] = 0
		}
	} else if v, ok := updates["price"]; ok {
		if n, ok := v.(float64); ok {
			it["price"] = int(n)
		} else {
			it["price"] = 0
		}
	}

	if v, ok := updates["area"]; ok {
		switch av := v.(type) {
		case float64:
			it["area"] = av
		case string:
			if f, err := strconv.ParseFloat(av, 64); err == nil && av != "" {
				it["area"] = f
			} else {
				it["area"] = nil
			}
		default:
			it["area"] = nil
		}
	}

	for _, field := range editableFields {
		if v, ok := updates[field]; ok {
			if sv, isStr := v.(string); isStr && sv == "" {
				it[field] = nil
			} else {
				it[field] = v
			}
		}
	}

	// kids_age mirrors into the age field the filters read.
	if v, ok := updates["kids_age"]; ok {
		if sv, isStr := v.(string); isStr && sv == "" {
			it["kids_age"] = nil
			it["age"] = nil
		} else {
			it["kids_age"] = v
			it["age"] = v
		}
	}

	if v, ok := str("image_url"); ok && v != "" {
		s.applyImageUpdate(ctx, it, v)
	}
}

// applyImageUpdate uploads an inline data-URL image to durable storage,
// falling back to storing the raw value.
func (s *AdminService) applyImageUpdate(ctx context.Context, it domain.Listing, imageURL string) {
	if !strings.HasPrefix(imageURL, "data:") {
		it["image_url"] = imageURL
		return
	}

	raw, err := decodeDataURL(imageURL)
	if err != nil {
		s.logger.Warn("image update carried malformed data url", zap.Error(err))
		it["image_url"] = imageURL
		return
	}

	caption := "📷 " + it.Str("title")
	fileID, err := s.uploader.UploadPhoto(ctx, raw, caption)
	if err != nil {
		s.logger.Warn("photo upload during edit failed", zap.Error(err))
		it["image_url"] = imageURL
		return
	}

	it["telegram_file_id"] = fileID
	it["telegram_photo"] = true
	if fresh, err := s.photos.ResolvePhotoURL(ctx, fileID); err == nil && fresh != "" {
		it["image_url"] = fresh
	}
}

// decodeDataURL strips the data-URL header and decodes the base64 body.
func decodeDataURL(dataURL string) ([]byte, error) {
	_, body, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, base64.CorruptInputError(0)
	}
	return base64.StdEncoding.DecodeString(body)
}
