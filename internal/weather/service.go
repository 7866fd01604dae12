package weather

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var (
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("resource not found")

	// ErrLookupFailed is returned by MonthlyRecord when the path does not exist.
	// It deliberately does not match ErrNotFound.
	ErrLookupFailed = errors.New("record lookup failed")
)

// NotFoundError is the client-facing error for an unknown country or an
// unknown month within a country.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string {
	return e.Detail
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func unknownCountry(country string) error {
	return &NotFoundError{Detail: fmt.Sprintf("Unknown country: %s", country)}
}

func unknownMonth(country, month string) error {
	return &NotFoundError{Detail: fmt.Sprintf("Unknown month '%s' for country '%s'", month, country)}
}

// CountryCities is the response for a country without a month filter.
type CountryCities struct {
	Country string   `json:"country"`
	Cities  []string `json:"cities"`
}

// CountryMonth is the response for a country filtered to one month.
type CountryMonth struct {
	Country string            `json:"country"`
	Month   string            `json:"month"`
	Cities  map[string]Record `json:"cities"`
}

// Service resolves lookup requests against the store.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Stats delegates to the underlying store.
func (s *Service) Stats() Stats {
	return s.store.Stats()
}

// ListCountries returns every country sorted ascending.
func (s *Service) ListCountries() []string {
	countries := s.store.ListCountries()
	sort.Strings(countries)
	return countries
}

// CountryCities returns the sorted city names of a country.
func (s *Service) CountryCities(country string) (CountryCities, error) {
	cities, ok := s.store.Cities(country)
	if !ok {
		s.logger.Debug("unknown country", slog.String("country", country))
		return CountryCities{}, unknownCountry(country)
	}

	return CountryCities{
		Country: country,
		Cities:  cities.SortedKeys(),
	}, nil
}

// CountryMonth returns the record for month in every city of country.
//
// The month is validated against the representative city only: the first
// city in sorted order. A month defined by other cities but not by the
// representative is reported as unknown. A city lacking a month that the
// representative defines fails the whole lookup with ErrLookupFailed.
func (s *Service) CountryMonth(country, month string) (CountryMonth, error) {
	cities, ok := s.store.Cities(country)
	if !ok {
		s.logger.Debug("unknown country", slog.String("country", country))
		return CountryMonth{}, unknownCountry(country)
	}

	names := cities.SortedKeys()
	if len(names) == 0 {
		s.logger.Debug("country has no cities", slog.String("country", country))
		return CountryMonth{}, unknownMonth(country, month)
	}

	representative, _ := cities.Get(names[0])
	if !representative.Has(month) {
		s.logger.Debug("unknown month",
			slog.String("country", country),
			slog.String("month", month),
			slog.String("representative", names[0]),
		)
		return CountryMonth{}, unknownMonth(country, month)
	}

	byCity := make(map[string]Record, len(names))
	for _, name := range names {
		months, _ := cities.Get(name)
		r, ok := months.Get(month)
		if !ok {
			// Only reachable on an inconsistent dataset.
			s.logger.Error("city is missing month defined by representative",
				slog.String("country", country),
				slog.String("city", name),
				slog.String("month", month),
			)
			return CountryMonth{}, fmt.Errorf("%w: %s/%s/%s", ErrLookupFailed, country, name, month)
		}
		byCity[name] = r
	}

	return CountryMonth{
		Country: country,
		Month:   month,
		Cities:  byCity,
	}, nil
}

// MonthlyRecord indexes the dataset directly. No per-segment validation is
// done; a missing path yields ErrLookupFailed.
func (s *Service) MonthlyRecord(country, city, month string) (Record, error) {
	r, ok := s.store.Record(country, city, month)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s/%s/%s", ErrLookupFailed, country, city, month)
	}
	return r, nil
}
