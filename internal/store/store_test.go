package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"classifieds-service/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(Config{DataDir: t.TempDir()}, zap.NewNop())
}

func sampleMap() domain.CategoryMap {
	m := domain.NewCategoryMap()
	m["transport"] = []domain.Listing{
		{"id": "t1", "title": "Продам байк", "price": float64(500)},
	}
	m["restaurants"] = []domain.Listing{
		{"id": "r1", "title": "Кафе у моря", "city": "Нячанг", "hidden": false},
	}
	return m
}

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{DataDir: dir}, zap.NewNop())

	m := sampleMap()
	require.NoError(t, s.Save(domain.CountryVietnam, m))

	// A brand new store on the same directory must read back an equal
	// map from disk, bypassing the writing store's cache.
	fresh := New(Config{DataDir: dir}, zap.NewNop())
	got := fresh.Load(domain.CountryVietnam)

	assert.Equal(t, m, got)
}

func TestStore_CacheFreshness(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(domain.CountryVietnam, sampleMap()))

	// Expire the post-save cache refresh so the first load hits disk.
	s.cache.invalidate(string(domain.CountryVietnam))

	reads := 0
	realRead := os.ReadFile
	s.readFile = func(path string) ([]byte, error) {
		reads++
		return realRead(path)
	}

	s.Load(domain.CountryVietnam)
	firstLoadReads := reads
	require.Greater(t, firstLoadReads, 0)

	s.Load(domain.CountryVietnam)
	assert.Equal(t, firstLoadReads, reads, "second load within TTL must not touch disk")
}

func TestStore_CacheExpiry(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(domain.CountryVietnam, sampleMap()))

	now := time.Now()
	s.cache.now = func() time.Time { return now }
	s.cache.invalidate(string(domain.CountryVietnam))

	reads := 0
	realRead := os.ReadFile
	s.readFile = func(path string) ([]byte, error) {
		reads++
		return realRead(path)
	}

	s.Load(domain.CountryVietnam)
	firstLoadReads := reads

	// Past the TTL the entry is logically invisible.
	now = now.Add(31 * time.Second)
	s.Load(domain.CountryVietnam)
	assert.Greater(t, reads, firstLoadReads, "load past TTL must re-read from disk")
}

func TestStore_SaveInvalidatesCache(t *testing.T) {
	s := newTestStore(t)

	first := sampleMap()
	require.NoError(t, s.Save(domain.CountryVietnam, first))
	s.Load(domain.CountryVietnam)

	second := sampleMap()
	second["transport"] = []domain.Listing{{"id": "t2", "title": "Новый байк"}}
	require.NoError(t, s.Save(domain.CountryVietnam, second))

	got := s.Load(domain.CountryVietnam)
	require.Len(t, got["transport"], 1)
	assert.Equal(t, "t2", got["transport"][0].ID(), "load after save must never return pre-write data")
}

func TestStore_RejectsEmptySave(t *testing.T) {
	s := newTestStore(t)

	err := s.Save(domain.CountryVietnam, nil)
	assert.ErrorIs(t, err, ErrEmptyData)

	err = s.Save(domain.CountryVietnam, domain.CategoryMap{})
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestStore_LockTimeout(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{DataDir: dir, LockTimeout: 50 * time.Millisecond}, zap.NewNop())

	// Simulate a stuck writer.
	s.writeLock <- struct{}{}
	defer func() { <-s.writeLock }()

	err := s.Save(domain.CountryVietnam, sampleMap())
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestStore_LegacyFlatListRecovery(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{DataDir: dir}, zap.NewNop())

	legacy := `[
		{"id": "b1", "category": "bikes", "title": "Honda"},
		{"id": "e1", "category": "exchange", "title": "Обмен USD"},
		{"id": "x1", "category": "weird", "title": "???"},
		{"id": "n1", "title": "без категории"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "listings_vietnam.json"), []byte(legacy), 0o600))

	got := s.Load(domain.CountryVietnam)

	require.Len(t, got["transport"], 1)
	assert.Equal(t, "b1", got["transport"][0].ID())
	require.Len(t, got["money_exchange"], 1)
	assert.Equal(t, "e1", got["money_exchange"][0].ID())
	// Unrecognized and untagged items land in chat.
	assert.Len(t, got["chat"], 2)
}

func TestStore_LoadFallsBackToAggregate(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{DataDir: dir}, zap.NewNop())

	aggregate := `{"thailand": {"tours": [{"id": "th1", "title": "Пхукет"}]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, aggregateFile), []byte(aggregate), 0o600))

	got := s.Load(domain.CountryThailand)
	require.Len(t, got["tours"], 1)
	assert.Equal(t, "th1", got["tours"][0].ID())
}

func TestStore_LoadDegradesToEmpty(t *testing.T) {
	s := newTestStore(t)

	got := s.Load(domain.CountryIndia)
	require.Len(t, got, len(domain.Categories()))
	for cat, items := range got {
		assert.Empty(t, items, "category %s should be empty", cat)
	}
}

func TestStore_LoadAllRecoversFromCorruptAggregate(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{DataDir: dir}, zap.NewNop())

	country := `{"transport": [{"id": "t1", "title": "Honda"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "listings_vietnam.json"), []byte(country), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, aggregateFile), []byte("{not json"), 0o600))

	got := s.LoadAll()

	require.Contains(t, got, "vietnam")
	require.Len(t, got["vietnam"]["transport"], 1)
	assert.Equal(t, "t1", got["vietnam"]["transport"][0].ID())
	// The other countries still come back as empty maps.
	assert.Contains(t, got, "thailand")
}

func TestStore_SavePreservesOtherCountriesInAggregate(t *testing.T) {
	s := newTestStore(t)

	thai := domain.NewCategoryMap()
	thai["tours"] = []domain.Listing{{"id": "th1"}}
	require.NoError(t, s.Save(domain.CountryThailand, thai))

	viet := sampleMap()
	require.NoError(t, s.Save(domain.CountryVietnam, viet))

	all := s.LoadAll()
	require.Len(t, all["thailand"]["tours"], 1)
	assert.Equal(t, "th1", all["thailand"]["tours"][0].ID())
	require.Len(t, all["vietnam"]["transport"], 1)
}

func TestStore_PendingQueue(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.LoadPending(domain.CountryVietnam))

	pending := []domain.Listing{
		{"id": "p1", "title": "На модерации", "status": "pending"},
	}
	require.NoError(t, s.SavePending(domain.CountryVietnam, pending))

	got := s.LoadPending(domain.CountryVietnam)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID())
}

func TestStore_RebuildAggregate(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{DataDir: dir}, zap.NewNop())

	country := `{"transport": [{"id": "t1"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "listings_vietnam.json"), []byte(country), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, aggregateFile), []byte("{broken"), 0o600))

	require.NoError(t, s.RebuildAggregate())

	fresh := New(Config{DataDir: dir}, zap.NewNop())
	all := fresh.LoadAll()
	require.Len(t, all["vietnam"]["transport"], 1)
	assert.Equal(t, "t1", all["vietnam"]["transport"][0].ID())
}
