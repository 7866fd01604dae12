package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-history/internal/weather"
)

func newStore(t *testing.T, raw string) *MemoryStore {
	t.Helper()
	d, err := weather.Decode([]byte(raw), weather.FormatJSON)
	require.NoError(t, err)
	return NewMemoryStore(d)
}

const fixture = `{
  "Spain": {
    "Seville": {"July": {"high": 96, "low": 68}},
    "Madrid":  {"July": {"high": 90, "low": 65}, "August": {"high": 88, "low": 64}}
  },
  "England": {
    "London": {"July": {"high": 74, "low": 59}}
  },
  "Nowhere": {}
}`

func TestListCountriesKeepsLoadOrder(t *testing.T) {
	s := newStore(t, fixture)
	assert.Equal(t, []string{"Spain", "England", "Nowhere"}, s.ListCountries())

	// callers get their own slice
	got := s.ListCountries()
	got[0] = "Mutated"
	assert.Equal(t, "Spain", s.ListCountries()[0])
}

func TestHasCountryAndCities(t *testing.T) {
	s := newStore(t, fixture)

	assert.True(t, s.HasCountry("Spain"))
	assert.False(t, s.HasCountry("spain"))

	cities, ok := s.Cities("Spain")
	require.True(t, ok)
	assert.Equal(t, []string{"Seville", "Madrid"}, cities.Keys())

	_, ok = s.Cities("Atlantis")
	assert.False(t, ok)
}

func TestHasMonthChecksFirstCityOnly(t *testing.T) {
	s := newStore(t, fixture)

	assert.True(t, s.HasMonth("Spain", "July"))
	// Madrid defines August but Seville, the first city, does not.
	assert.False(t, s.HasMonth("Spain", "August"))
	assert.False(t, s.HasMonth("Nowhere", "July"))
	assert.False(t, s.HasMonth("Atlantis", "July"))
}

func TestRecord(t *testing.T) {
	s := newStore(t, fixture)

	r, ok := s.Record("Spain", "Madrid", "August")
	require.True(t, ok)
	assert.Equal(t, weather.Record{High: 88, Low: 64}, r)

	for _, path := range [][3]string{
		{"Atlantis", "Madrid", "July"},
		{"Spain", "Bilbao", "July"},
		{"Spain", "Seville", "August"},
	} {
		_, ok := s.Record(path[0], path[1], path[2])
		assert.False(t, ok, path)
	}
}

func TestStats(t *testing.T) {
	s := newStore(t, fixture)
	assert.Equal(t, weather.Stats{Countries: 3, Cities: 3, Records: 4}, s.Stats())
}

func TestConcurrentReaders(t *testing.T) {
	s := newStore(t, fixture)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.ListCountries()
				_, _ = s.Record("Spain", "Madrid", "July")
				_ = s.HasMonth("England", "July")
			}
		}()
	}
	wg.Wait()
}
