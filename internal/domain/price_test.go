package domain

import "testing"

func TestNormalizePrice_StructuredField(t *testing.T) {
	tests := []struct {
		name     string
		listing  Listing
		expected int
	}{
		{
			name:     "positive integer price",
			listing:  Listing{"price": float64(1200)},
			expected: 1200,
		},
		{
			name:     "positive float price truncates",
			listing:  Listing{"price": 1500.75},
			expected: 1500,
		},
		{
			name:     "zero price with no description",
			listing:  Listing{"price": float64(0)},
			expected: 0,
		},
		{
			name:     "negative price with no description",
			listing:  Listing{"price": float64(-5)},
			expected: 0,
		},
		{
			name:     "missing price with no description",
			listing:  Listing{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePrice(tt.listing); got != tt.expected {
				t.Errorf("NormalizePrice() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestNormalizePrice_StringField(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		expected int
	}{
		{
			name:     "millions with comma decimal",
			price:    "7,5 млн",
			expected: 7500000,
		},
		{
			name:     "mln latin keyword",
			price:    "2 mln",
			expected: 2000000,
		},
		{
			name:     "spaced digits",
			price:    "1 200 000",
			expected: 1200000,
		},
		{
			name:     "plain digits with currency",
			price:    "500000 vnd",
			expected: 500000,
		},
		{
			name:     "no digits at all",
			price:    "договорная",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Listing{"price": tt.price}
			if got := NormalizePrice(l); got != tt.expected {
				t.Errorf("NormalizePrice(%q) = %d, want %d", tt.price, got, tt.expected)
			}
		})
	}
}

func TestNormalizePrice_DescriptionFallback(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		expected int
	}{
		{
			name:     "price label with spaced digits",
			desc:     "Сдаётся студия. Цена: 7 500 000 VND в месяц",
			expected: 7500000,
		},
		{
			name:     "million pattern with comma decimal",
			desc:     "отличная квартира, 7,5 млн за месяц",
			expected: 7500000,
		},
		{
			name:     "currency unit pattern",
			desc:     "всего 12 000 000 донг",
			expected: 12000000,
		},
		{
			name:     "million pattern wins over currency pattern",
			desc:     "аренда 8 млн, депозит 16 000 000 vnd",
			expected: 8000000,
		},
		{
			name:     "small bare value treated as millions",
			desc:     "срочно! цена: 75",
			expected: 75000000,
		},
		{
			name:     "no recognizable price",
			desc:     "звоните, договоримся",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Listing{"price": float64(0), "description": tt.desc}
			if got := NormalizePrice(l); got != tt.expected {
				t.Errorf("NormalizePrice() = %d, want %d", got, tt.expected)
			}
		})
	}
}
