package domain

import "testing"

func ids(items []Listing) []string {
	out := make([]string, len(items))
	for i, l := range items {
		out[i] = l.ID()
	}
	return out
}

func assertIDs(t *testing.T, got []Listing, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestFilter_Visibility(t *testing.T) {
	items := []Listing{
		{"id": "a"},
		{"id": "b", "hidden": true},
		{"id": "c", "hidden": false},
	}

	t.Run("hidden excluded by default", func(t *testing.T) {
		assertIDs(t, Filter("restaurants", items, Params{}), "a", "c")
	})

	t.Run("show_hidden includes everything", func(t *testing.T) {
		assertIDs(t, Filter("restaurants", items, Params{ShowHidden: true}), "a", "b", "c")
	})

	t.Run("nha trang real estate bypasses visibility", func(t *testing.T) {
		got := Filter("real_estate", items, Params{RealEstateCity: "nhatrang"})
		// The city predicate still runs; none of these items carry city
		// data, so the visible set here is what the bypass produced
		// before city filtering drops them all.
		if len(got) != 0 {
			t.Fatalf("expected city filter to drop city-less items, got %v", ids(got))
		}

		withCity := []Listing{
			{"id": "h", "hidden": true, "city": "Nha Trang"},
			{"id": "v", "city": "Nha Trang"},
		}
		assertIDs(t, Filter("real_estate", withCity, Params{RealEstateCity: "nhatrang"}), "h", "v")
	})
}

func TestFilter_Subcategory(t *testing.T) {
	t.Run("marketplace uses marketplace_category", func(t *testing.T) {
		items := []Listing{
			{"id": "a", "marketplace_category": "electronics"},
			{"id": "b", "marketplace_category": "furniture"},
			{"id": "c", "subcategory": "electronics"},
		}
		assertIDs(t, Filter("marketplace", items, Params{Subcategory: "electronics"}), "a")
	})

	t.Run("other categories use subcategory", func(t *testing.T) {
		items := []Listing{
			{"id": "a", "subcategory": "street_food"},
			{"id": "b", "subcategory": "cafe"},
		}
		assertIDs(t, Filter("restaurants", items, Params{Subcategory: "cafe"}), "b")
	})
}

func TestFilter_CommonCity_PermissiveDefault(t *testing.T) {
	items := []Listing{
		{"id": "no-city", "title": "доставка еды"},
		{"id": "match", "city": "Нячанг"},
		{"id": "other", "city": "Ханой"},
	}

	got := Filter("restaurants", items, Params{City: "Нячанг"})
	assertIDs(t, got, "no-city", "match")
}

func TestFilter_Kids(t *testing.T) {
	t.Run("type mapping for products", func(t *testing.T) {
		items := []Listing{
			{"id": "a", "kids_type": "Детский сад"},
			{"id": "b", "kids_type": "schools"},
		}
		assertIDs(t, Filter("kids", items, Params{KidsType: "products"}), "a")
	})

	t.Run("age range minimum against max_age", func(t *testing.T) {
		items := []Listing{
			{"id": "range", "age": "3-5"},
			{"id": "older", "age": "от 6 лет"},
			{"id": "unparsed", "age": "любой"},
		}

		assertIDs(t, Filter("kids", items, Params{MaxAge: "4"}), "range", "unparsed")
		assertIDs(t, Filter("kids", items, Params{MaxAge: "2"}), "unparsed")
	})

	t.Run("invalid max_age ignored", func(t *testing.T) {
		items := []Listing{{"id": "a", "age": "10"}}
		assertIDs(t, Filter("kids", items, Params{MaxAge: "abc"}), "a")
	})

	t.Run("city matches city field only", func(t *testing.T) {
		items := []Listing{
			{"id": "a", "city": "Нячанг"},
			{"id": "b", "description": "нячанг", "city": "Дананг"},
		}
		assertIDs(t, Filter("kids", items, Params{City: "nha trang"}), "a")
	})
}

func TestFilter_Visas(t *testing.T) {
	items := []Listing{
		{"id": "cam", "destination": "Cambodia", "citizenship": "россия"},
		{"id": "laos", "title": "Визаран в Лаос", "description": "для граждан РБ"},
		{"id": "days", "description": "оформление 90 дней"},
	}

	t.Run("destination via mapping", func(t *testing.T) {
		assertIDs(t, Filter("visas", items, Params{Destination: "камбоджа"}), "cam")
	})

	t.Run("destination via text", func(t *testing.T) {
		assertIDs(t, Filter("visas", items, Params{Destination: "лаос"}), "laos")
	})

	t.Run("nationality structured match", func(t *testing.T) {
		assertIDs(t, Filter("visas", items, Params{Nationality: "russia"}), "cam")
	})

	t.Run("nationality keyword match", func(t *testing.T) {
		assertIDs(t, Filter("visas", items, Params{Nationality: "belarus"}), "laos")
	})

	t.Run("days literal substring", func(t *testing.T) {
		assertIDs(t, Filter("visas", items, Params{Days: "90"}), "days")
	})
}

func TestFilter_Medicine(t *testing.T) {
	items := []Listing{
		{"id": "structured", "medicine_type": "hospital"},
		{"id": "keyword", "description": "хорошая клиника в центре"},
		{"id": "neither", "description": "продам витамины"},
	}

	got := Filter("medicine", items, Params{MedicineType: "clinics"})
	assertIDs(t, got, "structured", "keyword")
}

func TestFilter_Transport(t *testing.T) {
	items := []Listing{
		{"id": "sale", "transport_type": "bikes", "description": "Продам Honda, цена 500$", "model": "Honda Airblade", "year": "2020", "price": float64(500)},
		{"id": "rent", "transport_type": "bikes", "description": "Сдаю в аренду байк", "model": "Yamaha", "price": float64(0)},
		{"id": "car", "transport_type": "cars", "description": "продам авто"},
	}

	t.Run("transport type exact", func(t *testing.T) {
		assertIDs(t, Filter("transport", items, Params{TransportType: "cars"}), "car")
	})

	t.Run("deal type sale", func(t *testing.T) {
		assertIDs(t, Filter("transport", items, Params{TransportType: "bikes", DealType: "sale"}), "sale")
	})

	t.Run("deal type rent", func(t *testing.T) {
		assertIDs(t, Filter("transport", items, Params{TransportType: "bikes", DealType: "rent"}), "rent")
	})

	t.Run("model substring", func(t *testing.T) {
		assertIDs(t, Filter("transport", items, Params{Model: "airblade"}), "sale")
	})

	t.Run("year exact string", func(t *testing.T) {
		assertIDs(t, Filter("transport", items, Params{Year: "2020"}), "sale")
	})

	t.Run("price range needs both bounds", func(t *testing.T) {
		assertIDs(t, Filter("transport", items, Params{TransportType: "bikes", PriceMin: "100", PriceMax: "1000"}), "sale")
		// A single bound is ignored.
		assertIDs(t, Filter("transport", items, Params{TransportType: "bikes", PriceMin: "100"}), "sale", "rent")
	})
}

func TestFilter_RealEstate(t *testing.T) {
	items := []Listing{
		{"id": "nt", "city": "Nha Trang", "listing_type": "rent_long", "price": float64(500)},
		{"id": "dn", "city_ru": "Дананг", "listing_type": "sale", "price": float64(0), "description": "цена: 1200"},
		{"id": "unknown", "city": "Nha Trang", "price": float64(0)},
	}

	t.Run("city against city and city_ru", func(t *testing.T) {
		assertIDs(t, Filter("real_estate", items, Params{RealEstateCity: "danang"}), "dn")
	})

	t.Run("listing type containment", func(t *testing.T) {
		assertIDs(t, Filter("real_estate", items, Params{ListingType: "rent"}), "nt")
	})

	t.Run("price_max excludes unknown prices", func(t *testing.T) {
		got := Filter("real_estate", items, Params{PriceMax: "2000000000"})
		assertIDs(t, got, "nt", "dn")
	})

	t.Run("price_min keeps only at or above", func(t *testing.T) {
		got := Filter("real_estate", items, Params{PriceMin: "1000"})
		// "dn" extracts 1200 from its description; "nt" sits below the bound.
		assertIDs(t, got, "dn")
	})
}

func TestSort_DateDescending(t *testing.T) {
	items := []Listing{
		{"id": "old", "date": "2023-01-01T00:00:00"},
		{"id": "new", "date": "2024-06-01T00:00:00"},
		{"id": "fallback", "added_at": "2024-01-01T00:00:00"},
		{"id": "dateless"},
	}

	Sort("restaurants", items, "")
	assertIDs(t, items, "new", "fallback", "old", "dateless")
}

func TestSort_RealEstatePrice(t *testing.T) {
	items := []Listing{
		{"id": "zero", "price": float64(0)},
		{"id": "mid", "price": float64(500)},
		{"id": "high", "price": float64(1200)},
	}

	t.Run("price_asc puts unknown last", func(t *testing.T) {
		Sort("real_estate", items, "price_asc")
		assertIDs(t, items, "mid", "high", "zero")
	})

	t.Run("price_desc", func(t *testing.T) {
		Sort("real_estate", items, "price_desc")
		assertIDs(t, items, "high", "mid", "zero")
	})

	t.Run("price sort ignored outside real estate", func(t *testing.T) {
		other := []Listing{
			{"id": "a", "price": float64(5), "date": "2023-01-01"},
			{"id": "b", "price": float64(1), "date": "2024-01-01"},
		}
		Sort("transport", other, "price_asc")
		assertIDs(t, other, "b", "a")
	})
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		in       string
		expected Category
	}{
		{"exchange", CategoryMoneyExchange},
		{"bikes", CategoryTransport},
		{"realestate", CategoryRealEstate},
		{"settings", CategoryKids},
		{"stats", CategoryRestaurants},
		{"restaurants", CategoryRestaurants},
		{"unknown_thing", Category("unknown_thing")},
	}

	for _, tt := range tests {
		if got := ResolveCategory(tt.in); got != tt.expected {
			t.Errorf("ResolveCategory(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
