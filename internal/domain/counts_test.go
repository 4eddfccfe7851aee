package domain

import "testing"

func TestCountMedicineTypes(t *testing.T) {
	items := []Listing{
		{"medicine_type": "hospital"},
		{"medicine_type": "massage"},
		{"medicine_type": "doctor"},
		{"medicine_type": "страховка"},
		{"medicine_type": "something_else"},
		{},
	}

	counts := CountMedicineTypes(items)

	expected := map[string]int{
		"clinics":    2,
		"doctors":    1,
		"insurance":  1,
		"questions":  2, // unknown and missing values fall back to questions
		"directions": 0,
	}
	for bucket, want := range expected {
		if counts[bucket] != want {
			t.Errorf("counts[%q] = %d, want %d", bucket, counts[bucket], want)
		}
	}
}

func TestCountKidsTypes(t *testing.T) {
	items := []Listing{
		{"kids_type": "events"},
		{"kids_type": "Детский сад"},
		{"kids_category": "няни"},
		{"kids_type": "Школа"},
		{"kids_type": "что-то"},
	}

	counts := CountKidsTypes(items)

	expected := map[string]int{
		"events":   1,
		"products": 1,
		"nannies":  1,
		"schools":  2, // mapped "школа" plus the unknown fallback
	}
	for bucket, want := range expected {
		if counts[bucket] != want {
			t.Errorf("counts[%q] = %d, want %d", bucket, counts[bucket], want)
		}
	}
}
