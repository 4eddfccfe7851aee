package domain

import "strings"

// CanonicalCities is the fixed set of filter targets, in display order.
// The canonical spellings are Russian because that is what the source
// data predominantly uses.
var CanonicalCities = []string{
	"Нячанг", "Хошимин", "Ханой", "Фукуок", "Фантьет",
	"Муйне", "Дананг", "Камрань", "Далат", "Хойан",
}

// cityKeywords maps each canonical city to its lowercase keyword
// variants: Cyrillic, Latin with spaces, concatenated, and underscored.
// Matching is substring based, so "nha_trang" also covers photo URLs and
// slugs embedded in free text.
var cityKeywords = map[string][]string{
	"Нячанг":  {"нячанг", "nha trang", "nhatrang", "nha_trang"},
	"Хошимин": {"хошимин", "сайгон", "saigon", "ho chi minh", "hcm", "ho_chi_minh", "hochiminh"},
	"Дананг":  {"дананг", "da nang", "danang", "da_nang"},
	"Ханой":   {"ханой", "hanoi", "ha_noi"},
	"Фукуок":  {"фукуок", "phu quoc", "phuquoc", "phu_quoc"},
	"Фантьет": {"фантьет", "phan thiet", "phanthiet", "phan_thiet"},
	"Муйне":   {"муйне", "mui ne", "muine", "mui_ne"},
	"Камрань": {"камрань", "cam ranh", "camranh", "cam_ranh"},
	"Далат":   {"далат", "da lat", "dalat", "da_lat"},
	"Хойан":   {"хойан", "hoi an", "hoian", "hoi_an"},
}

// keywordToCanonical resolves any keyword variant back to its canonical
// city, so a filter request for "nha trang" selects the same keyword set
// as "Нячанг".
var keywordToCanonical = func() map[string]string {
	m := make(map[string]string)
	for canon, kws := range cityKeywords {
		m[strings.ToLower(canon)] = canon
		for _, kw := range kws {
			m[kw] = canon
		}
	}
	return m
}()

// CityKeywords returns the keyword set for a filter target. The target
// may be a canonical name or any known variant. Unknown targets degrade
// to a single lowercased literal, which still works as a plain substring
// filter.
func CityKeywords(target string) []string {
	if canon, ok := keywordToCanonical[strings.ToLower(strings.TrimSpace(target))]; ok {
		return cityKeywords[canon]
	}
	return []string{strings.ToLower(target)}
}

// MatchesCity reports whether the listing mentions the target city in its
// city or location fields or anywhere in its title and description. It
// does not apply the permissive no-city-data default; that policy belongs
// to the per-category predicate.
func MatchesCity(l Listing, target string) bool {
	itemCity := l.LowerStr("city")
	itemLocation := l.LowerStr("location")
	text := l.SearchText("title", "description")

	for _, kw := range CityKeywords(target) {
		if strings.Contains(itemCity, kw) || strings.Contains(itemLocation, kw) || strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// CountByCity counts how many visible listings mention each canonical
// city. A listing mentioning several cities is counted for all of them;
// count consumers want mention totals, not a partition.
func CountByCity(items []Listing) map[string]int {
	counts := make(map[string]int, len(CanonicalCities))
	for _, city := range CanonicalCities {
		counts[city] = 0
	}

	for _, item := range items {
		itemCity := item.LowerStr("city")
		if itemCity == "" {
			itemCity = item.LowerStr("location")
		}
		text := item.SearchText("title", "description") + " " + itemCity

		for city, kws := range cityKeywords {
			for _, kw := range kws {
				if strings.Contains(text, kw) || strings.Contains(itemCity, kw) {
					counts[city]++
					break
				}
			}
		}
	}
	return counts
}
