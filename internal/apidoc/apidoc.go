// Package apidoc builds the OpenAPI description of the lookup API and
// publishes it as a static file.
package apidoc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-openapi/spec"
)

// FileName is the name the document is written under.
const FileName = "openapi.json"

// Info describes the published API.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Build returns a Swagger 2.0 document for the lookup routes.
func Build(info Info) *spec.Swagger {
	record := spec.Schema{}
	record.Typed("object", "").
		WithRequired("high", "low").
		SetProperty("high", *spec.Int64Property()).
		SetProperty("low", *spec.Int64Property())

	problem := spec.Schema{}
	problem.Typed("object", "").
		WithRequired("detail").
		SetProperty("detail", *spec.StringProperty())

	countryCities := spec.Schema{}
	countryCities.Typed("object", "").
		WithRequired("country", "cities").
		SetProperty("country", *spec.StringProperty()).
		SetProperty("cities", *spec.ArrayProperty(spec.StringProperty()))

	countryMonth := spec.Schema{}
	countryMonth.Typed("object", "").
		WithRequired("country", "month", "cities").
		SetProperty("country", *spec.StringProperty()).
		SetProperty("month", *spec.StringProperty()).
		SetProperty("cities", *spec.MapProperty(spec.RefSchema("#/definitions/Record")))

	notFound := spec.NewResponse().
		WithDescription("Unknown country or month").
		WithSchema(spec.RefSchema("#/definitions/Problem"))

	countryParam := spec.PathParam("country").Typed("string", "").
		WithDescription("Country name as it appears in the dataset")

	listCountries := spec.NewOperation("listCountries").
		WithSummary("List countries").
		WithTags("countries").
		RespondsWith(http.StatusOK, spec.NewResponse().
			WithDescription("Sorted country names").
			WithSchema(spec.ArrayProperty(spec.StringProperty())))

	cities := spec.NewOperation("citiesByCountry").
		WithSummary("List cities for a country").
		WithDescription("Without month returns the sorted city names. With month returns the "+
			"historical high/low of every city for that month; the month is validated "+
			"against the alphabetically first city.").
		WithTags("countries").
		AddParam(countryParam).
		AddParam(spec.QueryParam("month").Typed("string", "").
			WithDescription("Month name, e.g. January")).
		RespondsWith(http.StatusOK, spec.NewResponse().
			WithDescription("CountryCities without month, CountryMonth with month").
			WithSchema(spec.RefSchema("#/definitions/CountryCities"))).
		RespondsWith(http.StatusNotFound, notFound)

	monthly := spec.NewOperation("monthlyAverage").
		WithSummary("Historical high/low for one city and month").
		WithTags("countries").
		AddParam(countryParam).
		AddParam(spec.PathParam("city").Typed("string", "")).
		AddParam(spec.PathParam("month").Typed("string", "")).
		RespondsWith(http.StatusOK, spec.NewResponse().
			WithDescription("Stored record").
			WithSchema(spec.RefSchema("#/definitions/Record")))

	return &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger:  "2.0",
			Produces: []string{"application/json"},
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Title:       info.Title,
					Version:     info.Version,
					Description: info.Description,
				},
			},
			Paths: &spec.Paths{
				Paths: map[string]spec.PathItem{
					"/countries":                          {PathItemProps: spec.PathItemProps{Get: listCountries}},
					"/countries/{country}":                {PathItemProps: spec.PathItemProps{Get: cities}},
					"/countries/{country}/{city}/{month}": {PathItemProps: spec.PathItemProps{Get: monthly}},
				},
			},
			Definitions: spec.Definitions{
				"Record":        record,
				"Problem":       problem,
				"CountryCities": countryCities,
				"CountryMonth":  countryMonth,
			},
		},
	}
}

// WriteFile writes doc as dir/openapi.json, creating dir if needed.
func WriteFile(dir string, doc *spec.Swagger) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal openapi document: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
