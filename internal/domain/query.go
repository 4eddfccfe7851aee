package domain

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Params holds the query parameters for a category listing request.
// String fields are raw request values; an empty value imposes no
// constraint. Numeric range bounds stay strings on purpose: malformed
// bounds are ignored rather than rejected, matching the tolerant
// behavior the frontend depends on.
type Params struct {
	City        string
	Subcategory string
	ShowHidden  bool

	// kids
	KidsType string
	MaxAge   string

	// visas
	Destination string
	Nationality string
	Days        string

	// medicine
	MedicineType string

	// transport
	TransportType string
	DealType      string // sale or rent
	Model         string
	Year          string

	// transport and real_estate price range
	PriceMin string
	PriceMax string

	// real_estate
	RealEstateCity string
	ListingType    string
	SourceGroup    string

	Sort string // price_asc or price_desc, real_estate only
}

// Apply filters and sorts a category's listing sequence. The input slice
// is not modified.
func Apply(category string, items []Listing, p Params) []Listing {
	filtered := Filter(category, items, p)
	Sort(category, filtered, p.Sort)
	return filtered
}

// Filter runs the visibility, subcategory, and category-specific
// predicate chains.
func Filter(category string, items []Listing, p Params) []Listing {
	filtered := make([]Listing, len(items))
	copy(filtered, items)

	// Real-estate requests for Nha Trang bypass the visibility filter
	// entirely. Deliberate: that city's feed is curated upstream.
	if !p.ShowHidden && !(category == string(CategoryRealEstate) && p.RealEstateCity == "nhatrang") {
		filtered = keep(filtered, func(l Listing) bool { return !l.Hidden() })
	}

	if p.Subcategory != "" {
		field := "subcategory"
		if category == string(CategoryMarketplace) {
			field = "marketplace_category"
		}
		filtered = keep(filtered, func(l Listing) bool { return l.Str(field) == p.Subcategory })
	}

	switch Category(category) {
	case CategoryRestaurants, CategoryTours, CategoryEntertainment, CategoryMarketplace:
		filtered = filterCommonCity(filtered, p)
	case CategoryVisas:
		filtered = filterCommonCity(filtered, p)
		filtered = filterVisas(filtered, p)
	case CategoryKids:
		filtered = filterKids(filtered, p)
	case CategoryNews:
		filtered = filterNews(filtered, p)
	case CategoryMoneyExchange:
		filtered = filterMoneyExchange(filtered, p)
	case CategoryMedicine:
		filtered = filterMedicine(filtered, p)
	case CategoryTransport:
		filtered = filterTransport(filtered, p)
	case CategoryRealEstate:
		filtered = filterRealEstate(filtered, p)
	}

	return filtered
}

// Sort orders items in place. Real estate honors explicit price sorts;
// everything else (and real estate without one) is newest first by date,
// falling back to the added_at timestamp, then an epoch floor.
func Sort(category string, items []Listing, sortKey string) {
	if category == string(CategoryRealEstate) {
		switch sortKey {
		case "price_desc":
			sort.SliceStable(items, func(i, j int) bool {
				return NormalizePrice(items[i]) > NormalizePrice(items[j])
			})
			return
		case "price_asc":
			// Priced items first in ascending order, unknown (zero) last.
			sort.SliceStable(items, func(i, j int) bool {
				pi, pj := NormalizePrice(items[i]), NormalizePrice(items[j])
				if (pi == 0) != (pj == 0) {
					return pj == 0
				}
				return pi < pj
			})
			return
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return dateKey(items[i]) > dateKey(items[j])
	})
}

func dateKey(l Listing) string {
	if d := l.Str("date"); d != "" {
		return d
	}
	if d := l.Str("added_at"); d != "" {
		return d
	}
	return "1970-01-01"
}

func keep(items []Listing, pred func(Listing) bool) []Listing {
	out := items[:0:0]
	for _, l := range items {
		if pred(l) {
			out = append(out, l)
		}
	}
	return out
}

// filterCommonCity applies the shared city predicate for restaurants,
// tours, entertainment, marketplace, and visas. An item with no city and
// no location data matches any city filter: the permissive default keeps
// city-less listings visible everywhere.
func filterCommonCity(items []Listing, p Params) []Listing {
	if p.City == "" {
		return items
	}
	targets := CityKeywords(p.City)

	return keep(items, func(l Listing) bool {
		itemCity := l.LowerStr("city")
		itemLocation := l.LowerStr("location")
		if itemCity == "" && itemLocation == "" {
			return true
		}

		text := l.SearchText("title", "description")
		for _, t := range targets {
			if strings.Contains(itemCity, t) || strings.Contains(itemLocation, t) || strings.Contains(text, t) {
				return true
			}
		}
		return false
	})
}

// kidsTypeRequestMapping translates the frontend's kids_type buttons to
// the values stored in the data (products listings are stored tagged as
// the Russian kindergarten label).
var kidsTypeRequestMapping = map[string]string{
	"products": "Детский сад",
	"schools":  "schools",
	"events":   "events",
	"nannies":  "nannies",
}

// kidsCityVariants is the small city table used by the kids filter; it
// matches the city field only, unlike the shared city predicate.
var kidsCityVariants = map[string][]string{
	"nha trang":   {"nha trang", "nhatrang", "нячанг"},
	"da nang":     {"da nang", "danang", "дананг"},
	"phu quoc":    {"phu quoc", "phuquoc", "фукуок"},
	"ho chi minh": {"ho chi minh", "hochiminh", "hcm", "хошимин", "сайгон"},
}

var digitsRe = regexp.MustCompile(`\d+`)

func filterKids(items []Listing, p Params) []Listing {
	if p.KidsType != "" {
		mapped, ok := kidsTypeRequestMapping[p.KidsType]
		if !ok {
			mapped = p.KidsType
		}
		items = keep(items, func(l Listing) bool {
			kt := l.Str("kids_type")
			return kt == mapped || kt == p.KidsType
		})
	}

	if p.City != "" {
		cityFilter := strings.ToLower(p.City)
		targets, ok := kidsCityVariants[cityFilter]
		if !ok {
			targets = []string{cityFilter}
		}
		items = keep(items, func(l Listing) bool {
			itemCity := l.LowerStr("city")
			for _, t := range targets {
				if strings.Contains(itemCity, t) {
					return true
				}
			}
			return false
		})
	}

	if p.MaxAge != "" {
		if maxAge, err := strconv.Atoi(p.MaxAge); err == nil {
			items = keep(items, func(l Listing) bool {
				numbers := digitsRe.FindAllString(l.Str("age"), -1)
				if len(numbers) == 0 {
					// No parseable age always matches.
					return true
				}
				minAge := -1
				for _, n := range numbers {
					v, err := strconv.Atoi(n)
					if err != nil {
						continue
					}
					if minAge < 0 || v < minAge {
						minAge = v
					}
				}
				return minAge >= 0 && minAge <= maxAge
			})
		}
	}

	return items
}

var visaDestinationVariants = map[string][]string{
	"камбоджа":  {"cambodia", "камбодж", "кампучия"},
	"лаос":      {"laos", "лаос"},
	"малайзия":  {"malaysia", "малайзия"},
	"непал":     {"nepal", "непал"},
	"шри-ланка": {"sri lanka", "srilanka", "шри-ланка", "шриланка"},
	"сингапур":  {"singapore", "сингапур"},
}

// Structured citizenship field values per nationality.
var visaCitizenshipValues = map[string][]string{
	"russia":     {"российское", "россия", "рф", "russia", "russian"},
	"kazakhstan": {"казахское", "казахстан", "kz", "kazakhstan"},
	"belarus":    {"белорусское", "беларусь", "беларуси", "belarus", "belarusian"},
	"ukraine":    {"украинское", "украина", "украины", "ukraine", "ukrainian"},
}

// Free-text fallback keywords per nationality.
var visaNationalityKeywords = map[string][]string{
	"russia":     {"росси", "россиян", "рф", "russia", "russian", "для русских", "для рф", "российск"},
	"kazakhstan": {"казах", "казакстан", "kz", "kazakhstan", "для казахов", "кз", "казахск"},
	"belarus":    {"белорус", "беларус", "belarus", "belarusian", "для белорусов", "рб"},
	"ukraine":    {"украин", "ukraine", "ukrainian", "для украинцев", "ua"},
}

func filterVisas(items []Listing, p Params) []Listing {
	if p.Destination != "" {
		dest := strings.ToLower(p.Destination)
		targets, ok := visaDestinationVariants[dest]
		if !ok {
			targets = []string{dest}
		}
		items = keep(items, func(l Listing) bool {
			for _, field := range []string{"destination", "title", "description"} {
				v := l.LowerStr(field)
				for _, t := range targets {
					if strings.Contains(v, t) {
						return true
					}
				}
			}
			return false
		})
	}

	if p.Nationality != "" {
		nationality := strings.ToLower(p.Nationality)
		values := visaCitizenshipValues[nationality]
		keywords := visaNationalityKeywords[nationality]

		items = keep(items, func(l Listing) bool {
			citizen := l.LowerStr("citizenship")
			if citizen != "" {
				for _, v := range values {
					if citizen == v {
						return true
					}
				}
			}
			text := l.SearchText("description", "title")
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					return true
				}
			}
			return false
		})
	}

	if p.Days != "" {
		items = keep(items, func(l Listing) bool {
			return strings.Contains(l.Str("description")+" "+l.Str("title"), p.Days)
		})
	}

	return items
}

func filterNews(items []Listing, p Params) []Listing {
	if p.City == "" {
		return items
	}
	cityFilter := strings.ToLower(p.City)
	return keep(items, func(l Listing) bool {
		return strings.Contains(l.LowerStr("city"), cityFilter) ||
			strings.Contains(l.LowerStr("title"), cityFilter) ||
			strings.Contains(l.LowerStr("description"), cityFilter)
	})
}

func filterMoneyExchange(items []Listing, p Params) []Listing {
	if p.City == "" {
		return items
	}
	targets := CityKeywords(p.City)
	return keep(items, func(l Listing) bool {
		text := l.SearchText("city", "title", "description", "address")
		for _, t := range targets {
			if strings.Contains(text, t) {
				return true
			}
		}
		return false
	})
}

// medicineTypeValues maps a filter button to the structured
// medicine_type values it accepts.
var medicineTypeValues = map[string][]string{
	"questions":  {"questions", "pharmacy"},
	"clinics":    {"clinics", "clinic", "hospital", "massage"},
	"doctors":    {"doctors", "doctor"},
	"insurance":  {"insurance"},
	"directions": {"directions", "dentist", "lab", "therapy"},
}

// medicineTypeKeywords is the free-text fallback when the structured
// field does not match.
var medicineTypeKeywords = map[string][]string{
	"questions":  {"вопрос", "помоги", "подскаж", "где найти", "посоветуй", "кто знает", "?"},
	"clinics":    {"клиник", "госпиталь", "больниц", "hospital", "clinic", "медцентр"},
	"doctors":    {"врач", "доктор", "doctor", "терапевт", "стоматолог", "специалист", "медик"},
	"insurance":  {"страхов", "insurance", "полис", "policy"},
	"directions": {"направлен", "специализац", "услуг", "обследован", "анализ", "аптек", "массаж", "pharmacy", "massage"},
}

func filterMedicine(items []Listing, p Params) []Listing {
	if p.City != "" {
		cityFilter := strings.ToLower(p.City)
		items = keep(items, func(l Listing) bool {
			return strings.Contains(l.LowerStr("city"), cityFilter) ||
				strings.Contains(l.LowerStr("title"), cityFilter) ||
				strings.Contains(l.LowerStr("description"), cityFilter)
		})
	}

	if p.MedicineType != "" {
		allowed, ok := medicineTypeValues[p.MedicineType]
		if !ok {
			allowed = []string{p.MedicineType}
		}
		keywords := medicineTypeKeywords[p.MedicineType]

		items = keep(items, func(l Listing) bool {
			itemType := l.LowerStr("medicine_type")
			for _, v := range allowed {
				if itemType == v {
					return true
				}
			}
			if len(keywords) == 0 {
				return false
			}
			text := l.SearchText("description", "title")
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					return true
				}
			}
			return false
		})
	}

	return items
}

var (
	transportSaleKeywords = []string{"продаж", "куплю", "продам", "цена", "$", "₫", "доллар"}
	transportRentKeywords = []string{"аренд", "сдам", "сдаю", "наём", "прокат", "почасово"}
)

func filterTransport(items []Listing, p Params) []Listing {
	if p.TransportType != "" {
		items = keep(items, func(l Listing) bool {
			return l.Str("transport_type") == p.TransportType
		})
	}

	if p.City != "" {
		targets := CityKeywords(p.City)
		items = keep(items, func(l Listing) bool {
			itemCity := l.LowerStr("city")
			itemLocation := l.LowerStr("location")
			text := l.SearchText("title", "description")
			for _, t := range targets {
				if strings.Contains(itemCity, t) || strings.Contains(itemLocation, t) || strings.Contains(text, t) {
					return true
				}
			}
			return false
		})
	}

	if p.DealType != "" {
		var keywords []string
		switch strings.ToLower(p.DealType) {
		case "sale":
			keywords = transportSaleKeywords
		case "rent":
			keywords = transportRentKeywords
		}
		if keywords != nil {
			items = keep(items, func(l Listing) bool {
				desc := l.LowerStr("description")
				for _, kw := range keywords {
					if strings.Contains(desc, kw) {
						return true
					}
				}
				return false
			})
		}
	}

	if p.Model != "" {
		model := strings.ToLower(p.Model)
		items = keep(items, func(l Listing) bool {
			return strings.Contains(l.LowerStr("model"), model)
		})
	}

	if p.Year != "" {
		items = keep(items, func(l Listing) bool { return l.Str("year") == p.Year })
	}

	// Transport price range needs both bounds and uses the structured
	// field only: unparsed free-text prices count as zero here.
	if p.PriceMin != "" && p.PriceMax != "" {
		minP, errMin := strconv.ParseFloat(p.PriceMin, 64)
		maxP, errMax := strconv.ParseFloat(p.PriceMax, 64)
		if errMin == nil && errMax == nil {
			items = keep(items, func(l Listing) bool {
				price, _ := l.Number("price")
				return minP <= price && price <= maxP
			})
		}
	}

	return items
}

var realEstateCityVariants = map[string][]string{
	"nhatrang":  {"nhatrang", "nha trang", "нячанг"},
	"danang":    {"danang", "da nang", "дананг"},
	"hochiminh": {"hochiminh", "ho chi minh", "hcm", "хошимин", "сайгон"},
	"hanoi":     {"hanoi", "ha noi", "ханой"},
	"phuquoc":   {"phuquoc", "phu quoc", "фукуок"},
	"dalat":     {"dalat", "da lat", "далат"},
}

func filterRealEstate(items []Listing, p Params) []Listing {
	if p.RealEstateCity != "" {
		cityFilter := strings.ToLower(p.RealEstateCity)
		targets, ok := realEstateCityVariants[cityFilter]
		if !ok {
			targets = []string{cityFilter}
		}
		items = keep(items, func(l Listing) bool {
			city := l.LowerStr("city")
			cityRu := l.LowerStr("city_ru")
			for _, t := range targets {
				if strings.Contains(city, t) || strings.Contains(cityRu, t) {
					return true
				}
			}
			return false
		})
	}

	if p.ListingType != "" {
		items = keep(items, func(l Listing) bool {
			return strings.Contains(l.Str("listing_type"), p.ListingType)
		})
	}

	if p.SourceGroup != "" {
		items = keep(items, func(l Listing) bool {
			if l.Str("source_group") == p.SourceGroup || l.Str("contact_name") == p.SourceGroup {
				return true
			}
			if photos, ok := l["photos"].([]any); ok {
				parts := make([]string, 0, len(photos))
				for _, ph := range photos {
					if s, ok := ph.(string); ok {
						parts = append(parts, s)
					}
				}
				if strings.Contains(strings.Join(parts, " "), p.SourceGroup) {
					return true
				}
			}
			return strings.Contains(l.Str("photo_url"), p.SourceGroup)
		})
	}

	// A max bound excludes unknown (zero) prices; a min bound keeps only
	// prices at or above it, which excludes zero for any positive min.
	if p.PriceMax != "" {
		if maxP, err := strconv.Atoi(p.PriceMax); err == nil {
			items = keep(items, func(l Listing) bool {
				price := NormalizePrice(l)
				return price > 0 && price <= maxP
			})
		}
	}

	if p.PriceMin != "" {
		if minP, err := strconv.Atoi(p.PriceMin); err == nil {
			items = keep(items, func(l Listing) bool {
				return NormalizePrice(l) >= minP
			})
		}
	}

	return items
}
