// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Country is a top-level data partition. Each country owns its own
// persisted file and cache entry.
type Country string

const (
	CountryVietnam   Country = "vietnam"
	CountryThailand  Country = "thailand"
	CountryIndia     Country = "india"
	CountryIndonesia Country = "indonesia"
)

// Countries returns all known countries in a stable order.
func Countries() []Country {
	return []Country{CountryVietnam, CountryThailand, CountryIndia, CountryIndonesia}
}

// ParseCountry validates a raw country string.
func ParseCountry(s string) (Country, bool) {
	c := Country(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Countries() {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Category is a fixed classification bucket for listings.
type Category string

const (
	CategoryRestaurants   Category = "restaurants"
	CategoryTours         Category = "tours"
	CategoryTransport     Category = "transport"
	CategoryRealEstate    Category = "real_estate"
	CategoryMoneyExchange Category = "money_exchange"
	CategoryEntertainment Category = "entertainment"
	CategoryMarketplace   Category = "marketplace"
	CategoryVisas         Category = "visas"
	CategoryNews          Category = "news"
	CategoryMedicine      Category = "medicine"
	CategoryKids          Category = "kids"
	CategoryChat          Category = "chat"
)

// Categories returns all known categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryRestaurants, CategoryTours, CategoryTransport, CategoryRealEstate,
		CategoryMoneyExchange, CategoryEntertainment, CategoryMarketplace,
		CategoryVisas, CategoryNews, CategoryMedicine, CategoryKids, CategoryChat,
	}
}

// requestAliases maps category names accepted on the request path to
// canonical categories. Several legacy frontend routes still use the
// short names.
var requestAliases = map[string]Category{
	"exchange":       CategoryMoneyExchange,
	"money_exchange": CategoryMoneyExchange,
	"bikes":          CategoryTransport,
	"realestate":     CategoryRealEstate,
	"settings":       CategoryKids,
	"stats":          CategoryRestaurants,
}

// ResolveCategory resolves request-path aliases to a canonical category
// name. Unknown names pass through unchanged; the caller decides whether
// an unknown category is an error or an empty result.
func ResolveCategory(s string) Category {
	if c, ok := requestAliases[s]; ok {
		return c
	}
	return Category(s)
}

// legacyAliases maps category tags found in legacy flat-list files to
// canonical categories. Items with tags outside this table and outside
// the canonical set land in "chat".
var legacyAliases = map[string]Category{
	"bikes":          CategoryTransport,
	"real_estate":    CategoryRealEstate,
	"exchange":       CategoryMoneyExchange,
	"money_exchange": CategoryMoneyExchange,
	"food":           CategoryRestaurants,
	"restaurants":    CategoryRestaurants,
}

// ResolveLegacyCategory maps a legacy item tag to its canonical category.
func ResolveLegacyCategory(s string) Category {
	if c, ok := legacyAliases[s]; ok {
		return c
	}
	return Category(s)
}

// Listing is a loosely structured classifieds record. Persisted data is
// heterogeneous: prices may be numbers or free text, optional fields may
// be null, absent, or differently typed between items. The record keeps
// its raw decoded JSON shape so saves round-trip unknown fields, and
// exposes typed accessors that coerce defensively.
type Listing map[string]any

// ID returns the listing identifier, unique within its category+country.
func (l Listing) ID() string {
	return l.Str("id")
}

// Hidden reports whether the listing is excluded from default reads.
func (l Listing) Hidden() bool {
	switch v := l["hidden"].(type) {
	case bool:
		return v
	default:
		return false
	}
}

// Str returns the value under key coerced to a string. Nil and missing
// values become the empty string, numbers are rendered without a
// trailing ".0" for whole floats.
func (l Listing) Str(key string) string {
	switch v := l[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// LowerStr is Str lowercased, the common form for substring filters.
func (l Listing) LowerStr(key string) string {
	return strings.ToLower(l.Str(key))
}

// Number returns the value under key as a float64 when it is numeric.
func (l Listing) Number(key string) (float64, bool) {
	switch v := l[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// SearchText builds the lowercased concatenation of the given fields,
// space separated, for keyword matching.
func (l Listing) SearchText(keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, l.Str(k))
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Clone returns a shallow copy of the listing.
func (l Listing) Clone() Listing {
	out := make(Listing, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// CategoryMap is one country's data: category name to its ordered listing
// sequence. Insertion order matters (approved items go to the front), so
// values are slices, never re-sorted in place by the store.
type CategoryMap map[string][]Listing

// NewCategoryMap returns a category map with every known category present
// and empty.
func NewCategoryMap() CategoryMap {
	m := make(CategoryMap, len(Categories()))
	for _, c := range Categories() {
		m[string(c)] = []Listing{}
	}
	return m
}

// Clone returns a copy of the map with freshly allocated slices. Listings
// themselves are shared; callers that mutate items must Clone them.
func (m CategoryMap) Clone() CategoryMap {
	out := make(CategoryMap, len(m))
	for cat, items := range m {
		cp := make([]Listing, len(items))
		copy(cp, items)
		out[cat] = cp
	}
	return out
}

// CloneDeep returns a copy of the map with cloned listings, safe for
// in-place mutation while other readers hold the original.
func (m CategoryMap) CloneDeep() CategoryMap {
	out := make(CategoryMap, len(m))
	for cat, items := range m {
		cp := make([]Listing, len(items))
		for i, it := range items {
			cp[i] = it.Clone()
		}
		out[cat] = cp
	}
	return out
}

// Insert places a listing at the front of the category's sequence.
func (m CategoryMap) Insert(category string, l Listing) {
	m[category] = append([]Listing{l}, m[category]...)
}
