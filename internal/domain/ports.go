package domain

import (
	"context"
	"time"
)

// Store defines authoritative read/write access to the per-country
// category maps.
// Implementation: internal/store
type Store interface {
	// Load returns a country's category map, from cache when fresh.
	// Missing or corrupt files degrade to empty data, never an error.
	Load(country Country) CategoryMap

	// LoadAll returns every country's category map keyed by country name.
	LoadAll() map[string]CategoryMap

	// Save replaces a country's data in full, persisting both the
	// per-country file and the aggregate mirror. Empty maps are
	// rejected. Returns ErrLockTimeout from the store package when the
	// write lock cannot be acquired in time.
	Save(country Country, data CategoryMap) error

	// LoadPending returns the country's moderation queue.
	LoadPending(country Country) []Listing

	// SavePending replaces the country's moderation queue.
	SavePending(country Country, items []Listing) error
}

// PhotoResolver resolves a durable photo reference to a fresh,
// time-limited display URL.
// Implementation: internal/infra/telegram
type PhotoResolver interface {
	// ResolvePhotoURL returns the display URL for a stored file
	// reference. Failure is reported so callers can keep a stale URL.
	ResolvePhotoURL(ctx context.Context, fileID string) (string, error)
}

// PhotoUploader stores an image durably and returns the durable
// reference used for later resolution.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, image []byte, caption string) (string, error)
}

// Notifier delivers operator notifications (new submissions, moderation
// events).
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Cache defines the byte-cache used for translation results.
// Implementation: internal/infra/redis
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error
}
