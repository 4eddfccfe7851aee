package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Description extraction patterns, tried in priority order. The first
// match wins.
var pricePatterns = []struct {
	re      *regexp.Regexp
	million bool
}{
	// "7,5 миллион", "7.5 млн", "12 mln"
	{regexp.MustCompile(`(\d+[,.]?\d*)\s*(?:миллион|млн|mln)`), true},
	// "Цена: 7 500 000"
	{regexp.MustCompile(`цена[:\s]*(\d[\d\s]*)`), false},
	// "7 500 000 VND", "500 000 донг"
	{regexp.MustCompile(`(\d[\d\s]{2,})\s*(?:vnd|донг|₫)`), false},
}

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// NormalizePrice produces a non-negative integer price for sorting and
// range filtering. Resolution order: a positive structured price field,
// then the price field parsed as text, then patterns over the
// description. Zero means "unknown" and is treated specially by range
// filters and the price_asc sort.
func NormalizePrice(l Listing) int {
	if price, ok := l.Number("price"); ok && price > 0 {
		return int(price)
	}

	// Only genuine strings get the text parse. A numeric field that
	// failed the positivity check above must not be re-read as text,
	// where stripping the sign would turn -5 into 5.
	if s, ok := l["price"].(string); ok && s != "" {
		if v := parsePriceString(s); v > 0 {
			return v
		}
	}

	return extractPriceFromText(l.LowerStr("description"))
}

// parsePriceString handles free-text price fields such as "7,5 млн" or
// "12.000.000 vnd". Comma is treated as a decimal separator; extra dots
// beyond the first are collapsed into the fractional part.
func parsePriceString(s string) int {
	s = strings.ToLower(s)

	multiplier := 1.0
	if strings.Contains(s, "млн") || strings.Contains(s, "mln") || strings.Contains(s, "миллион") {
		multiplier = 1_000_000
	}

	cleaned := nonPriceChars.ReplaceAllString(strings.ReplaceAll(s, ",", "."), "")
	if parts := strings.Split(cleaned, "."); len(parts) > 2 {
		cleaned = parts[0] + "." + strings.Join(parts[1:], "")
	}
	if cleaned == "" {
		return 0
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if v := int(val * multiplier); v > 0 {
		return v
	}
	return 0
}

// extractPriceFromText scans a lowercased description with the ordered
// pattern set. A value under 1000 from the million pattern is scaled by
// 1e6; otherwise a value under 100 is also treated as millions, a
// heuristic for truncated figures like "цена 75".
func extractPriceFromText(desc string) int {
	for _, p := range pricePatterns {
		m := p.re.FindStringSubmatch(desc)
		if m == nil {
			continue
		}

		raw := strings.ReplaceAll(strings.ReplaceAll(m[1], " ", ""), ",", ".")
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		if p.million && val < 1000 {
			val *= 1_000_000
		} else if val < 100 {
			val *= 1_000_000
		}
		return int(val)
	}
	return 0
}
