package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"classifieds-service/internal/auth"
	"classifieds-service/internal/domain"
)

const (
	vietnamPass = "viet-pass"
	superPass   = "super-pass"
)

func newTestAdmin(store *fakeStore) *AdminService {
	authenticator := auth.New(map[string]string{
		"vietnam":  vietnamPass,
		"thailand": "thai-pass",
	}, superPass)
	photos := &fakePhotos{}
	return NewAdminService(store, authenticator, photos, photos, zap.NewNop())
}

func seedAdminData(store *fakeStore) {
	m := domain.NewCategoryMap()
	m["transport"] = []domain.Listing{
		{"id": "t1", "title": "Honda", "contact_name": "Ivan Petrov"},
		{"id": "t2", "title": "Yamaha", "contact": "ivan2000"},
	}
	m["marketplace"] = []domain.Listing{
		{"id": "m1", "title": "Шкаф", "contact_name": "IVAN"},
	}
	store.data[domain.CountryVietnam] = m
}

func TestAdmin_Authorization(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	err := svc.Delete("wrong", domain.CountryVietnam, "transport", "t1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Valid password for another country may not touch vietnam.
	err = svc.Delete("thai-pass", domain.CountryVietnam, "transport", "t1")
	assert.ErrorIs(t, err, ErrForbidden)

	// The super password covers every country.
	err = svc.Delete(superPass, domain.CountryVietnam, "transport", "t1")
	assert.NoError(t, err)
}

func TestAdmin_Authenticate(t *testing.T) {
	svc := newTestAdmin(newFakeStore())

	scope, err := svc.Authenticate(superPass, "")
	require.NoError(t, err)
	assert.Equal(t, auth.ScopeAll, scope)

	_, err = svc.Authenticate("wrong", "vietnam")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAdmin_Get(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	got, err := svc.Get(vietnamPass, domain.CountryVietnam, "transport", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Honda", got.Str("title"))

	// The caller gets a copy, not the cached listing.
	got["title"] = "edited"
	assert.Equal(t, "Honda", store.data[domain.CountryVietnam]["transport"][0].Str("title"))
}

func TestAdmin_Get_NotFound(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	_, err := svc.Get(vietnamPass, domain.CountryVietnam, "spaceships", "t1")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = svc.Get(vietnamPass, domain.CountryVietnam, "transport", "missing")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestAdmin_ToggleVisibility_ReplacesLoadedListing(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	// A mutation must not write through listings other requests may be
	// reading; it clones, edits the clone and saves the new map.
	before := store.data[domain.CountryVietnam]["transport"][0]

	_, err := svc.ToggleVisibility(vietnamPass, domain.CountryVietnam, "transport", "t1")
	require.NoError(t, err)

	assert.False(t, before.Hidden())
	assert.True(t, store.data[domain.CountryVietnam]["transport"][0].Hidden())
}

func TestAdmin_Delete(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	require.NoError(t, svc.Delete(vietnamPass, domain.CountryVietnam, "transport", "t1"))

	items := store.data[domain.CountryVietnam]["transport"]
	require.Len(t, items, 1)
	assert.Equal(t, "t2", items[0].ID())
}

func TestAdmin_Delete_ResolvesAlias(t *testing.T) {
	store := newFakeStore()
	m := domain.NewCategoryMap()
	m["money_exchange"] = []domain.Listing{{"id": "e1"}}
	store.data[domain.CountryVietnam] = m
	svc := newTestAdmin(store)

	require.NoError(t, svc.Delete(vietnamPass, domain.CountryVietnam, "exchange", "e1"))

	assert.Empty(t, store.data[domain.CountryVietnam]["money_exchange"])
}

func TestAdmin_Move(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	require.NoError(t, svc.Move(vietnamPass, domain.CountryVietnam, "transport", "marketplace", "t2"))

	assert.Len(t, store.data[domain.CountryVietnam]["transport"], 1)
	market := store.data[domain.CountryVietnam]["marketplace"]
	require.Len(t, market, 2)
	// Moved listing lands at the front with a rewritten category tag.
	assert.Equal(t, "t2", market[0].ID())
	assert.Equal(t, "marketplace", market[0].Str("category"))
}

func TestAdmin_Move_ListingNotFound(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	err := svc.Move(vietnamPass, domain.CountryVietnam, "transport", "marketplace", "missing")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestAdmin_ToggleVisibility(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	hidden, err := svc.ToggleVisibility(vietnamPass, domain.CountryVietnam, "transport", "t1")
	require.NoError(t, err)
	assert.True(t, hidden)

	hidden, err = svc.ToggleVisibility(vietnamPass, domain.CountryVietnam, "transport", "t1")
	require.NoError(t, err)
	assert.False(t, hidden)
}

func TestAdmin_BulkSetHidden_MatchesContactSubstring(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	// "ivan" matches contact_name "Ivan Petrov", contact "ivan2000" and
	// contact_name "IVAN" across both categories.
	count, err := svc.BulkSetHidden(vietnamPass, domain.CountryVietnam, "", "ivan", true)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.True(t, store.data[domain.CountryVietnam]["transport"][0].Hidden())
	assert.True(t, store.data[domain.CountryVietnam]["marketplace"][0].Hidden())
}

func TestAdmin_BulkSetHidden_ScopedToCategory(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	count, err := svc.BulkSetHidden(vietnamPass, domain.CountryVietnam, "transport", "ivan", true)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.False(t, store.data[domain.CountryVietnam]["marketplace"][0].Hidden())
}

func TestAdmin_Edit_CoercesTypedFields(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	svc := newTestAdmin(store)

	err := svc.Edit(context.Background(), vietnamPass, domain.CountryVietnam, "transport", "t1", map[string]any{
		"title": "Honda SH",
		"price": "1500",
		"area":  "not-a-number",
		"city":  "",
	})
	require.NoError(t, err)

	item := store.data[domain.CountryVietnam]["transport"][0]
	assert.Equal(t, "Honda SH", item.Str("title"))
	assert.Equal(t, 1500, item["price"])
	assert.Nil(t, item["area"])
	assert.Nil(t, item["city"])
}

func TestAdmin_Edit_UploadsInlinePhoto(t *testing.T) {
	store := newFakeStore()
	seedAdminData(store)
	authenticator := auth.New(map[string]string{"vietnam": vietnamPass}, superPass)
	photos := &fakePhotos{}
	svc := NewAdminService(store, authenticator, photos, photos, zap.NewNop())

	err := svc.Edit(context.Background(), vietnamPass, domain.CountryVietnam, "transport", "t1", map[string]any{
		"image_url": "data:image/jpeg;base64,aGVsbG8=",
	})
	require.NoError(t, err)

	require.Len(t, photos.uploaded, 1)
	assert.Equal(t, []byte("hello"), photos.uploaded[0])

	item := store.data[domain.CountryVietnam]["transport"][0]
	assert.Equal(t, "file-1", item.Str("telegram_file_id"))
	assert.Equal(t, "https://photos.example.com/file-1", item.Str("image_url"))
}
