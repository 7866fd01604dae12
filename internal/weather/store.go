package weather

// Store is the read-only contract the lookup service relies on.
// Missing keys are reported through the bool results, never as errors.
type Store interface {
	ListCountries() []string
	HasCountry(country string) bool
	Cities(country string) (Cities, bool)
	HasMonth(country, month string) bool
	Record(country, city, month string) (Record, bool)
	Stats() Stats
}
