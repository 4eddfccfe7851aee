package domain

import "testing"

func TestListing_Str_Coercion(t *testing.T) {
	l := Listing{
		"title":  "Квартира у моря",
		"price":  float64(1200),
		"area":   45.5,
		"rooms":  nil,
		"hidden": true,
	}

	tests := []struct {
		key      string
		expected string
	}{
		{"title", "Квартира у моря"},
		{"price", "1200"},
		{"area", "45.5"},
		{"rooms", ""},
		{"missing", ""},
		{"hidden", "true"},
	}

	for _, tt := range tests {
		if got := l.Str(tt.key); got != tt.expected {
			t.Errorf("Str(%q) = %q, want %q", tt.key, got, tt.expected)
		}
	}
}

func TestListing_Hidden(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		want    bool
	}{
		{"explicit true", Listing{"hidden": true}, true},
		{"explicit false", Listing{"hidden": false}, false},
		{"absent", Listing{}, false},
		{"non-bool value", Listing{"hidden": "yes"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.listing.Hidden(); got != tt.want {
				t.Errorf("Hidden() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryMap_Insert(t *testing.T) {
	m := NewCategoryMap()
	if len(m) != len(Categories()) {
		t.Fatalf("NewCategoryMap has %d categories, want %d", len(m), len(Categories()))
	}

	m.Insert("transport", Listing{"id": "first"})
	m.Insert("transport", Listing{"id": "second"})

	if got := m["transport"][0].ID(); got != "second" {
		t.Errorf("front of sequence = %q, want %q", got, "second")
	}
	if got := m["transport"][1].ID(); got != "first" {
		t.Errorf("second item = %q, want %q", got, "first")
	}
}

func TestResolveLegacyCategory(t *testing.T) {
	tests := []struct {
		in       string
		expected Category
	}{
		{"bikes", CategoryTransport},
		{"exchange", CategoryMoneyExchange},
		{"food", CategoryRestaurants},
		{"real_estate", CategoryRealEstate},
		{"mystery", Category("mystery")},
	}

	for _, tt := range tests {
		if got := ResolveLegacyCategory(tt.in); got != tt.expected {
			t.Errorf("ResolveLegacyCategory(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestParseCountry(t *testing.T) {
	if c, ok := ParseCountry(" Vietnam "); !ok || c != CountryVietnam {
		t.Errorf("ParseCountry(\" Vietnam \") = %q, %v", c, ok)
	}
	if _, ok := ParseCountry("germany"); ok {
		t.Error("ParseCountry(\"germany\") should not be valid")
	}
}
