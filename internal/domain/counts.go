package domain

import "strings"

// medicineTypeBuckets folds the many raw medicine_type values into the
// five buckets the frontend renders. Unrecognized values land in
// questions.
var medicineTypeBuckets = map[string]string{
	"pharmacy":    "questions",
	"doctor":      "doctors",
	"massage":     "clinics",
	"insurance":   "insurance",
	"directions":  "directions",
	"clinic":      "clinics",
	"hospital":    "clinics",
	"questions":   "questions",
	"clinics":     "clinics",
	"doctors":     "doctors",
	"dentist":     "directions",
	"lab":         "directions",
	"therapy":     "directions",
	"вопросы":     "questions",
	"клиники":     "clinics",
	"врачи":       "doctors",
	"страховка":   "insurance",
	"направления": "directions",
}

// CountMedicineTypes counts visible medicine listings per type bucket.
func CountMedicineTypes(items []Listing) map[string]int {
	counts := map[string]int{
		"questions": 0, "clinics": 0, "doctors": 0, "insurance": 0, "directions": 0,
	}
	for _, item := range items {
		bucket, ok := medicineTypeBuckets[item.LowerStr("medicine_type")]
		if !ok {
			bucket = "questions"
		}
		counts[bucket]++
	}
	return counts
}

// kidsTypeBuckets maps Russian kids_type labels to the canonical
// buckets. Unrecognized values land in schools.
var kidsTypeBuckets = map[string]string{
	"школы":        "schools",
	"школа":        "schools",
	"детские сады": "products",
	"детский сад":  "products",
	"садик":        "products",
	"мероприятия":  "events",
	"мероприятие":  "events",
	"няни":         "nannies",
	"няня":         "nannies",
	"товары":       "products",
}

// CountKidsTypes counts visible kids listings per type bucket, checking
// the legacy kids_category field when kids_type is absent.
func CountKidsTypes(items []Listing) map[string]int {
	counts := map[string]int{
		"events": 0, "nannies": 0, "schools": 0, "products": 0,
	}
	for _, item := range items {
		kidsType := item.LowerStr("kids_type")
		if kidsType == "" {
			kidsType = item.LowerStr("kids_category")
		}
		kidsType = strings.TrimSpace(kidsType)

		if _, ok := counts[kidsType]; ok {
			counts[kidsType]++
			continue
		}
		bucket, ok := kidsTypeBuckets[kidsType]
		if !ok {
			bucket = "schools"
		}
		counts[bucket]++
	}
	return counts
}
