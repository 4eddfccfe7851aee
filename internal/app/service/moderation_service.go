package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"classifieds-service/internal/auth"
	"classifieds-service/internal/captcha"
	"classifieds-service/internal/domain"
)

// submitCategoryLabels are the human-readable category names used in
// moderation notifications.
var submitCategoryLabels = map[string]string{
	"money_exchange": "Обмен денег",
	"kids":           "Для детей",
	"marketplace":    "Барахолка",
	"visas":          "Визаран",
	"news":           "Фотосессия",
	"medicine":       "Медицина",
	"real_estate":    "Недвижимость",
	"other":          "Другое",
}

// Submission is a public listing submission bound for the moderation
// queue.
type Submission struct {
	Country       string
	Category      string
	Title         string
	Description   string
	Price         string
	City          string
	Whatsapp      string
	Telegram      string
	Rooms         string
	Area          string
	Location      string
	ListingType   string
	ContactName   string
	CaptchaToken  string
	CaptchaAnswer string

	// Images are inline data URLs prepared by the transport layer.
	Images []string

	// Extra carries category-specific fields (exchange pairs, visa
	// destination, marketplace subcategory, medicine type).
	Extra map[string]string
}

// ModerationService handles the submission pipeline: public submit into
// the pending queue, and admin review moving entries into the live data.
type ModerationService struct {
	store    domain.Store
	auth     *auth.Authenticator
	captcha  *captcha.Store
	uploader domain.PhotoUploader
	photos   domain.PhotoResolver
	notifier domain.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewModerationService creates a new ModerationService.
func NewModerationService(
	store domain.Store,
	authenticator *auth.Authenticator,
	captchaStore *captcha.Store,
	uploader domain.PhotoUploader,
	photos domain.PhotoResolver,
	notifier domain.Notifier,
	logger *zap.Logger,
) *ModerationService {
	return &ModerationService{
		store:    store,
		auth:     authenticator,
		captcha:  captchaStore,
		uploader: uploader,
		photos:   photos,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit validates a public submission and appends it to the country's
// moderation queue. The operator is notified best-effort.
func (s *ModerationService) Submit(ctx context.Context, sub Submission) error {
	if sub.CaptchaToken != "" {
		if !s.captcha.Verify(sub.CaptchaToken, sub.CaptchaAnswer) {
			return ErrInvalidCaptcha
		}
	}

	if sub.Title == "" || sub.Description == "" || sub.Telegram == "" {
		return ErrMissingFields
	}

	country, ok := domain.ParseCountry(sub.Country)
	if !ok {
		country = domain.CountryVietnam
	}
	category := sub.Category
	if category == "" {
		category = "other"
	}

	pending := s.store.LoadPending(country)

	listing := domain.Listing{
		"id":          fmt.Sprintf("pending_%s_%s_%d_%d", category, country, s.now().Unix(), len(pending)),
		"title":       sub.Title,
		"description": sub.Description,
		"price":       coercePrice(sub.Price),
		"city":        nilIfEmpty(sub.City),
		"whatsapp":    sub.Whatsapp,
		"telegram":    sub.Telegram,
		"category":    category,
		"date":        s.now().Format(time.RFC3339),
		"status":      "pending",
	}

	if len(sub.Images) > 0 {
		listing["image_url"] = sub.Images[0]
	} else {
		listing["image_url"] = nil
	}
	if len(sub.Images) > 1 {
		listing["all_images"] = sub.Images
	} else {
		listing["all_images"] = nil
	}

	setIfPresent(listing, "rooms", sub.Rooms)
	setIfPresent(listing, "location", sub.Location)
	setIfPresent(listing, "listing_type", sub.ListingType)
	setIfPresent(listing, "contact_name", sub.ContactName)
	if sub.Area != "" {
		if f, err := strconv.ParseFloat(sub.Area, 64); err == nil {
			listing["area"] = f
		}
	}
	for k, v := range sub.Extra {
		listing[k] = v
	}

	pending = append(pending, listing)
	if err := s.store.SavePending(country, pending); err != nil {
		return fmt.Errorf("queueing submission: %w", err)
	}

	label, ok := submitCategoryLabels[category]
	if !ok {
		label = category
	}
	message := fmt.Sprintf(
		"<b>Новое объявление (%s)</b>\n\n<b>%s</b>\n%s...\n\nГород: %s\nЦена: %s\n\n✈️ Telegram: %s",
		label, sub.Title, truncate(sub.Description, 200), sub.City, sub.Price, sub.Telegram,
	)
	if err := s.notifier.Notify(ctx, message); err != nil {
		s.logger.Warn("submission notification failed", zap.Error(err))
	}

	s.logger.Info("submission queued",
		zap.String("country", string(country)),
		zap.String("category", category),
	)

	return nil
}

// Pending returns the country's moderation queue. Admin only.
func (s *ModerationService) Pending(password string, country domain.Country) ([]domain.Listing, error) {
	if err := s.authorize(password, country); err != nil {
		return nil, err
	}
	return s.store.LoadPending(country), nil
}

// Approve removes a pending listing from the queue and publishes it:
// the id is re-minted, the photo moved to durable storage, and the
// listing inserted at the front of its category.
func (s *ModerationService) Approve(ctx context.Context, password string, country domain.Country, listingID string) error {
	listing, err := s.takePending(password, country, listingID)
	if err != nil {
		return err
	}

	category := listing.Str("category")
	if category == "" {
		category = string(domain.CategoryRealEstate)
	}

	listing["id"] = fmt.Sprintf("%s_%s_%d", country, category, s.now().Unix())
	listing["status"] = "approved"

	s.promotePhoto(ctx, listing)

	// Shallow clone: Insert rewrites a category slice, and the cached
	// map is shared with concurrent readers.
	data := s.store.Load(country).Clone()
	data.Insert(category, listing)
	if err := s.store.Save(country, data); err != nil {
		return fmt.Errorf("publishing approved listing: %w", err)
	}

	s.logger.Info("listing approved",
		zap.String("country", string(country)),
		zap.String("category", category),
		zap.String("listing_id", listing.ID()),
	)

	return nil
}

// Reject drops a pending listing from the queue.
func (s *ModerationService) Reject(_ context.Context, password string, country domain.Country, listingID string) error {
	_, err := s.takePending(password, country, listingID)
	return err
}

func (s *ModerationService) authorize(password string, country domain.Country) error {
	scope, ok := s.auth.Authenticate(password, string(country))
	if !ok {
		return ErrUnauthorized
	}
	if !auth.CanAccess(scope, string(country)) {
		return ErrForbidden
	}
	return nil
}

// takePending removes and returns the pending listing with the given
// id, persisting the shortened queue.
func (s *ModerationService) takePending(password string, country domain.Country, listingID string) (domain.Listing, error) {
	if err := s.authorize(password, country); err != nil {
		return nil, err
	}

	pending := s.store.LoadPending(country)
	for i, it := range pending {
		if it.ID() == listingID {
			pending = append(pending[:i:i], pending[i+1:]...)
			if err := s.store.SavePending(country, pending); err != nil {
				return nil, fmt.Errorf("updating moderation queue: %w", err)
			}
			return it, nil
		}
	}

	return nil, ErrListingNotFound
}

// promotePhoto moves an inline submission photo into durable storage
// and swaps the display URL for a fresh one. Any failure keeps the
// original value.
func (s *ModerationService) promotePhoto(ctx context.Context, listing domain.Listing) {
	imageURL := listing.Str("image_url")
	if !strings.HasPrefix(imageURL, "data:") {
		return
	}

	raw, err := decodeDataURL(imageURL)
	if err != nil {
		s.logger.Warn("approved listing carried malformed data url", zap.Error(err))
		return
	}

	caption := fmt.Sprintf("📋 %s\n\n%s", listing.Str("title"), truncate(listing.Str("description"), 500))
	fileID, err := s.uploader.UploadPhoto(ctx, raw, caption)
	if err != nil {
		s.logger.Warn("photo promotion failed", zap.Error(err))
		return
	}

	listing["telegram_file_id"] = fileID
	listing["telegram_photo"] = true
	if fresh, err := s.photos.ResolvePhotoURL(ctx, fileID); err == nil && fresh != "" {
		listing["image_url"] = fresh
	}
}

// coercePrice keeps numeric submissions as integers and everything else
// as the raw string, with empty meaning unknown.
func coercePrice(price string) any {
	if price == "" {
		return 0
	}
	if n, err := strconv.Atoi(price); err == nil {
		return n
	}
	return price
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func setIfPresent(l domain.Listing, key, value string) {
	if value != "" {
		l[key] = value
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
