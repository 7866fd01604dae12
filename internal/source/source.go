// Package source reads the raw historical dataset from its configured location.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-history/data"
	"github.com/i474232898/weather-history/internal/common"
	"github.com/i474232898/weather-history/internal/weather"
)

// maxPayloadBytes bounds how much of a remote dataset is read.
const maxPayloadBytes = 64 << 20

// Payload is an undecoded dataset together with where it came from.
type Payload struct {
	Data   []byte
	Format weather.Format
	Origin string
}

// Loader resolves a dataset location to a Payload.
type Loader struct {
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewLoader creates a Loader. client is only used for http(s) locations.
func NewLoader(client *http.Client) *Loader {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dataset-source",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Loader{
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

// WithBackoff overrides the retry policy for remote locations.
func (l *Loader) WithBackoff(b BackoffConfig) *Loader {
	l.httpCfg.Backoff = b
	return l
}

// Load reads the dataset at location. An empty location selects the
// embedded default; http:// and https:// locations are fetched; anything
// else is read as a file path.
func (l *Loader) Load(ctx context.Context, location string) (Payload, error) {
	switch {
	case location == "":
		return Payload{
			Data:   data.Weather,
			Format: weather.FormatJSON,
			Origin: data.WeatherName,
		}, nil
	case isRemote(location):
		return l.fetch(ctx, location)
	default:
		return readFile(location)
	}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func readFile(path string) (Payload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("read dataset file: %w", err)
	}
	return Payload{
		Data:   raw,
		Format: DetectFormat(path, ""),
		Origin: path,
	}, nil
}

func (l *Loader) fetch(ctx context.Context, location string) (Payload, error) {
	u, err := url.Parse(location)
	if err != nil {
		return Payload{}, fmt.Errorf("parse dataset url: %w", err)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json, application/yaml;q=0.9")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, l.httpCfg, l.circuit, buildRequest)
	if err != nil {
		return Payload{}, fmt.Errorf("fetch dataset %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return Payload{}, fmt.Errorf("read dataset body: %w", err)
	}
	if len(raw) > maxPayloadBytes {
		return Payload{}, fmt.Errorf("dataset %s exceeds %d bytes", u.Redacted(), maxPayloadBytes)
	}

	return Payload{
		Data:   raw,
		Format: DetectFormat(u.Path, resp.Header.Get("Content-Type")),
		Origin: u.Redacted(),
	}, nil
}

// DetectFormat picks YAML for .yaml/.yml names or a YAML content type and
// JSON otherwise.
func DetectFormat(name, contentType string) weather.Format {
	if common.HasAnySuffix(name, ".yaml", ".yml") || common.HasAny(contentType, "yaml") {
		return weather.FormatYAML
	}
	return weather.FormatJSON
}
