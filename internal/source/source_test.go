package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-history/data"
	"github.com/i474232898/weather-history/internal/weather"
)

var fastBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func newTestLoader() *Loader {
	return NewLoader(&http.Client{Timeout: 2 * time.Second}).WithBackoff(fastBackoff)
}

func TestLoadEmbeddedDefault(t *testing.T) {
	p, err := newTestLoader().Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, data.Weather, p.Data)
	assert.Equal(t, weather.FormatJSON, p.Format)
	assert.Equal(t, data.WeatherName, p.Origin)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "weather.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("Peru:\n  Lima:\n    May: {high: 74, low: 62}\n"), 0o644))

	p, err := newTestLoader().Load(context.Background(), yamlPath)
	require.NoError(t, err)
	assert.Equal(t, weather.FormatYAML, p.Format)
	assert.Equal(t, yamlPath, p.Origin)

	_, err = weather.Decode(p.Data, p.Format)
	assert.NoError(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := newTestLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRemoteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Peru": {"Lima": {"May": {"high": 74, "low": 62}}}}`))
	}))
	defer srv.Close()

	p, err := newTestLoader().Load(context.Background(), srv.URL+"/weather")
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, weather.FormatJSON, p.Format)
	assert.JSONEq(t, `{"Peru": {"Lima": {"May": {"high": 74, "low": 62}}}}`, string(p.Data))
}

func TestLoadRemoteDetectsYAMLContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte("Peru:\n  Lima:\n    May: {high: 74, low: 62}\n"))
	}))
	defer srv.Close()

	p, err := newTestLoader().Load(context.Background(), srv.URL+"/dataset")
	require.NoError(t, err)
	assert.Equal(t, weather.FormatYAML, p.Format)
}

func TestLoadRemoteClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestLoader().Load(context.Background(), srv.URL+"/weather.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpected)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadRemoteGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestLoader().Load(context.Background(), srv.URL)
	assert.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, int32(fastBackoff.MaxRetries+1), calls.Load())
}

func TestLoadRemoteHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader().Load(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, weather.FormatYAML, DetectFormat("data/weather.YAML", ""))
	assert.Equal(t, weather.FormatYAML, DetectFormat("weather.yml", ""))
	assert.Equal(t, weather.FormatYAML, DetectFormat("/dataset", "text/yaml; charset=utf-8"))
	assert.Equal(t, weather.FormatJSON, DetectFormat("weather.json", "application/json"))
	assert.Equal(t, weather.FormatJSON, DetectFormat("weather", ""))
}
