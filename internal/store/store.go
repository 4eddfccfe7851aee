package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"classifieds-service/internal/domain"
)

const aggregateFile = "listings_data.json"

var (
	// ErrLockTimeout is returned when the store-wide write lock cannot
	// be acquired within the configured bound. Callers should treat it
	// as retryable.
	ErrLockTimeout = errors.New("store: write lock acquisition timed out")

	// ErrEmptyData is returned when a save would replace a country's
	// data with nothing. A write must always be a full replacement.
	ErrEmptyData = errors.New("store: refusing to save empty category map")
)

// Config holds document store settings.
type Config struct {
	DataDir     string
	CacheTTL    time.Duration
	LockTimeout time.Duration
}

// Store owns authoritative read/write access to the per-country category
// maps. Reads degrade to empty data on missing or corrupt files; writes
// are serialized by a single store-wide lock and persist both the
// per-country file and the aggregate mirror.
type Store struct {
	dataDir     string
	lockTimeout time.Duration
	cache       *snapshotCache
	writeLock   chan struct{}
	logger      *zap.Logger

	// readFile is swappable so tests can count or fail disk reads.
	readFile func(string) ([]byte, error)
}

// New creates a Store. Zero durations get production defaults (30s
// cache TTL, 5s lock timeout).
func New(cfg Config, logger *zap.Logger) *Store {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 5 * time.Second
	}

	return &Store{
		dataDir:     cfg.DataDir,
		lockTimeout: cfg.LockTimeout,
		cache:       newSnapshotCache(cfg.CacheTTL, time.Now),
		writeLock:   make(chan struct{}, 1),
		logger:      logger,
		readFile:    os.ReadFile,
	}
}

func (s *Store) countryPath(country domain.Country) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("listings_%s.json", country))
}

func (s *Store) pendingPath(country domain.Country) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("pending_%s.json", country))
}

func (s *Store) aggregatePath() string {
	return filepath.Join(s.dataDir, aggregateFile)
}

// Load returns a country's category map. A fresh cache entry is returned
// as-is; otherwise the per-country file is read, falling back to the
// aggregate file's section for this country, falling back to empty data.
func (s *Store) Load(country domain.Country) domain.CategoryMap {
	if v, ok := s.cache.get(string(country)); ok {
		return v.(domain.CategoryMap)
	}

	result := s.loadCountryFromDisk(country)
	s.cache.put(string(country), result)
	return result
}

func (s *Store) loadCountryFromDisk(country domain.Country) domain.CategoryMap {
	path := s.countryPath(country)

	if raw, err := s.readFile(path); err == nil {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			s.logger.Warn("country file unparsable, trying aggregate",
				zap.String("file", path),
				zap.Error(err),
			)
		} else {
			switch v := decoded.(type) {
			case map[string]any:
				return toCategoryMap(v)
			case []any:
				// Legacy flat-list shape: redistribute items into
				// categories by their tag.
				return redistributeLegacy(v)
			default:
				s.logger.Warn("country file has unexpected shape",
					zap.String("file", path),
				)
			}
		}
	} else if !os.IsNotExist(err) {
		s.logger.Warn("country file read failed", zap.String("file", path), zap.Error(err))
	}

	// Fall back to this country's section of the aggregate file.
	if raw, err := s.readFile(s.aggregatePath()); err == nil {
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			s.logger.Warn("aggregate file unparsable", zap.Error(err))
		} else if section, ok := decoded[string(country)].(map[string]any); ok {
			return toCategoryMap(section)
		}
	}

	return domain.NewCategoryMap()
}

// LoadAll returns every country's category map. On aggregate parse
// failure it recovers by loading each country individually.
func (s *Store) LoadAll() map[string]domain.CategoryMap {
	if v, ok := s.cache.get(cacheKeyAll); ok {
		return v.(map[string]domain.CategoryMap)
	}

	result := make(map[string]domain.CategoryMap, len(domain.Countries()))
	for _, c := range domain.Countries() {
		result[string(c)] = domain.NewCategoryMap()
	}

	if raw, err := s.readFile(s.aggregatePath()); err == nil {
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			s.logger.Warn("aggregate file unparsable, recovering from country files", zap.Error(err))
			for _, c := range domain.Countries() {
				result[string(c)] = s.loadCountryFromDisk(c)
			}
		} else {
			for country, v := range decoded {
				if section, ok := v.(map[string]any); ok {
					result[country] = toCategoryMap(section)
				}
			}
		}
	}

	s.cache.put(cacheKeyAll, result)
	return result
}

// Save replaces a country's data in full. The cache entries for the
// country and the aggregate are invalidated before persisting and
// refreshed with the new values afterwards, so the immediately following
// read is a cache hit on post-write data. File write failures are logged
// and do not abort the remaining persistence steps.
func (s *Store) Save(country domain.Country, data domain.CategoryMap) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	if err := s.acquireWriteLock(); err != nil {
		return err
	}
	defer s.releaseWriteLock()

	s.cache.invalidate(string(country))
	s.cache.invalidate(cacheKeyAll)

	if err := s.writeJSON(s.countryPath(country), data); err != nil {
		s.logger.Error("country file write failed",
			zap.String("country", string(country)),
			zap.Error(err),
		)
	}

	// The aggregate is rebuilt from disk, never from cache, so a stale
	// snapshot can't clobber another country's section.
	allData := make(map[string]domain.CategoryMap)
	if raw, err := s.readFile(s.aggregatePath()); err == nil {
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			s.logger.Warn("aggregate file unparsable during save, rebuilding", zap.Error(err))
		} else {
			for c, v := range decoded {
				if section, ok := v.(map[string]any); ok {
					allData[c] = toCategoryMap(section)
				}
			}
		}
	}
	allData[string(country)] = data

	if err := s.writeJSON(s.aggregatePath(), allData); err != nil {
		s.logger.Error("aggregate file write failed", zap.Error(err))
	}

	s.cache.put(string(country), data)
	s.cache.put(cacheKeyAll, allData)

	return nil
}

// LoadPending returns the country's moderation queue. Missing or corrupt
// files degrade to an empty queue.
func (s *Store) LoadPending(country domain.Country) []domain.Listing {
	raw, err := s.readFile(s.pendingPath(country))
	if err != nil {
		return []domain.Listing{}
	}

	var decoded []any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		s.logger.Warn("pending file unparsable",
			zap.String("country", string(country)),
			zap.Error(err),
		)
		return []domain.Listing{}
	}
	return toListings(decoded)
}

// SavePending replaces the country's moderation queue, under the same
// store-wide write lock as Save.
func (s *Store) SavePending(country domain.Country, items []domain.Listing) error {
	if items == nil {
		items = []domain.Listing{}
	}

	if err := s.acquireWriteLock(); err != nil {
		return err
	}
	defer s.releaseWriteLock()

	if err := s.writeJSON(s.pendingPath(country), items); err != nil {
		s.logger.Error("pending file write failed",
			zap.String("country", string(country)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// RebuildAggregate reassembles the aggregate mirror from the per-country
// files. The save path is best-effort on the aggregate, so the
// reconcile job calls this periodically to repair drift.
func (s *Store) RebuildAggregate() error {
	if err := s.acquireWriteLock(); err != nil {
		return err
	}
	defer s.releaseWriteLock()

	allData := make(map[string]domain.CategoryMap, len(domain.Countries()))
	for _, c := range domain.Countries() {
		allData[string(c)] = s.loadCountryFromDisk(c)
	}

	if err := s.writeJSON(s.aggregatePath(), allData); err != nil {
		return fmt.Errorf("writing aggregate: %w", err)
	}

	s.cache.put(cacheKeyAll, allData)
	return nil
}

func (s *Store) acquireWriteLock() error {
	select {
	case s.writeLock <- struct{}{}:
		return nil
	case <-time.After(s.lockTimeout):
		return ErrLockTimeout
	}
}

func (s *Store) releaseWriteLock() {
	<-s.writeLock
}

// writeJSON persists via temp-file-then-rename in the same directory, so
// a concurrent reader observes either the former or the current file,
// never a torn write.
func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(s.dataDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// toCategoryMap converts a decoded JSON object into a CategoryMap,
// keeping whatever category keys the file carries. Non-list values and
// non-object items are dropped.
func toCategoryMap(m map[string]any) domain.CategoryMap {
	out := make(domain.CategoryMap, len(m))
	for cat, v := range m {
		items, ok := v.([]any)
		if !ok {
			continue
		}
		out[cat] = toListings(items)
	}
	return out
}

func toListings(items []any) []domain.Listing {
	out := make([]domain.Listing, 0, len(items))
	for _, it := range items {
		if obj, ok := it.(map[string]any); ok {
			out = append(out, domain.Listing(obj))
		}
	}
	return out
}

// redistributeLegacy sorts a flat listing list into a fresh category
// map using the legacy alias table. Items with missing or unrecognized
// tags land in chat.
func redistributeLegacy(items []any) domain.CategoryMap {
	result := domain.NewCategoryMap()
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		l := domain.Listing(obj)

		mapped := string(domain.ResolveLegacyCategory(l.Str("category")))
		if _, known := result[mapped]; !known {
			mapped = string(domain.CategoryChat)
		}
		result[mapped] = append(result[mapped], l)
	}
	return result
}
