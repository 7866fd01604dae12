package store

import (
	"github.com/i474232898/weather-history/internal/weather"
)

// MemoryStore holds a decoded dataset for the lifetime of the process.
// It has no mutating methods, so concurrent readers need no locking.
type MemoryStore struct {
	data  weather.Dataset
	stats weather.Stats
}

// NewMemoryStore wraps an already decoded dataset.
func NewMemoryStore(data weather.Dataset) *MemoryStore {
	return &MemoryStore{
		data:  data,
		stats: weather.CountStats(data),
	}
}

// ListCountries returns every country in load order.
func (s *MemoryStore) ListCountries() []string {
	return s.data.Keys()
}

func (s *MemoryStore) HasCountry(country string) bool {
	return s.data.Has(country)
}

// Cities returns the cities of a country, or false if the country is unknown.
func (s *MemoryStore) Cities(country string) (weather.Cities, bool) {
	return s.data.Get(country)
}

// HasMonth reports whether the first city of country (in load order) defines
// month. Other cities are not inspected.
func (s *MemoryStore) HasMonth(country, month string) bool {
	cities, ok := s.data.Get(country)
	if !ok {
		return false
	}
	_, months, ok := cities.First()
	if !ok {
		return false
	}
	return months.Has(month)
}

// Record returns the high/low for a full country/city/month path.
func (s *MemoryStore) Record(country, city, month string) (weather.Record, bool) {
	cities, ok := s.data.Get(country)
	if !ok {
		return weather.Record{}, false
	}
	months, ok := cities.Get(city)
	if !ok {
		return weather.Record{}, false
	}
	return months.Get(month)
}

func (s *MemoryStore) Stats() weather.Stats {
	return s.stats
}
