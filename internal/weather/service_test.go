package weather_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-history/data"
	"github.com/i474232898/weather-history/internal/store"
	"github.com/i474232898/weather-history/internal/weather"
)

func newService(t *testing.T, raw []byte) *weather.Service {
	t.Helper()
	d, err := weather.Decode(raw, weather.FormatJSON)
	require.NoError(t, err)
	return weather.NewService(store.NewMemoryStore(d), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListCountriesIsSorted(t *testing.T) {
	svc := newService(t, []byte(`{"Spain": {}, "England": {}, "Peru": {}}`))
	assert.Equal(t, []string{"England", "Peru", "Spain"}, svc.ListCountries())
}

func TestCountryCities(t *testing.T) {
	svc := newService(t, data.Weather)

	got, err := svc.CountryCities("Portugal")
	require.NoError(t, err)
	assert.Equal(t, weather.CountryCities{Country: "Portugal", Cities: []string{"Lisbon", "Porto"}}, got)

	_, err = svc.CountryCities("Atlantis")
	assert.ErrorIs(t, err, weather.ErrNotFound)
	assert.EqualError(t, err, "Unknown country: Atlantis")
}

func TestCountryMonth(t *testing.T) {
	svc := newService(t, data.Weather)

	got, err := svc.CountryMonth("Portugal", "January")
	require.NoError(t, err)
	assert.Equal(t, weather.CountryMonth{
		Country: "Portugal",
		Month:   "January",
		Cities: map[string]weather.Record{
			"Lisbon": {High: 57, Low: 46},
			"Porto":  {High: 57, Low: 45},
		},
	}, got)
}

func TestCountryMonthValidationOrder(t *testing.T) {
	svc := newService(t, []byte(`{
		"Testland": {
			"Beta":  {"January": {"high": 10, "low": 1}, "February": {"high": 11, "low": 2}},
			"Alpha": {"January": {"high": 20, "low": 3}}
		},
		"Emptyland": {}
	}`))

	// Country is checked before the month.
	_, err := svc.CountryMonth("Atlantis", "Smarch")
	assert.EqualError(t, err, "Unknown country: Atlantis")

	// Alpha is the representative even though Beta was loaded first.
	_, err = svc.CountryMonth("Testland", "February")
	assert.ErrorIs(t, err, weather.ErrNotFound)
	assert.EqualError(t, err, "Unknown month 'February' for country 'Testland'")

	_, err = svc.CountryMonth("Emptyland", "January")
	assert.EqualError(t, err, "Unknown month 'January' for country 'Emptyland'")

	var nf *weather.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCountryMonthFailsWhenAnyCityLacksMonth(t *testing.T) {
	svc := newService(t, []byte(`{"T": {"A": {"May": {"high": 1, "low": 0}}, "B": {"June": {"high": 2, "low": 1}}}}`))

	got, err := svc.CountryMonth("T", "May")
	assert.ErrorIs(t, err, weather.ErrLookupFailed)
	assert.NotErrorIs(t, err, weather.ErrNotFound)
	assert.EqualError(t, err, "record lookup failed: T/B/May")
	assert.Zero(t, got)
}

func TestMonthlyRecord(t *testing.T) {
	svc := newService(t, data.Weather)

	r, err := svc.MonthlyRecord("Portugal", "Porto", "January")
	require.NoError(t, err)
	assert.Equal(t, weather.Record{High: 57, Low: 45}, r)

	_, err = svc.MonthlyRecord("Portugal", "Faro", "January")
	assert.ErrorIs(t, err, weather.ErrLookupFailed)
	assert.NotErrorIs(t, err, weather.ErrNotFound)
}
