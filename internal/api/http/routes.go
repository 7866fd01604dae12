package httpapi

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-history/internal/weather"
)

type lookupHandler struct {
	service *weather.Service
	logger  *slog.Logger
}

// RegisterRoutes wires the lookup handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, logger *slog.Logger) {
	h := &lookupHandler{
		service: service,
		logger:  logger.With(slog.String("component", "lookup")),
	}

	countries := app.Group("/countries")
	countries.Get("/", h.listCountries)
	countries.Get("/:country", h.cities)
	countries.Get("/:country/:city/:month", h.monthlyAverage)
}

func (h *lookupHandler) listCountries(c *fiber.Ctx) error {
	return c.JSON(h.service.ListCountries())
}

// cities serves both the plain city listing and, when the month query key is
// present (even empty), the per-city high/low for that month.
func (h *lookupHandler) cities(c *fiber.Ctx) error {
	country := pathParam(c, "country")

	if !c.Context().QueryArgs().Has("month") {
		resp, err := h.service.CountryCities(country)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(resp)
	}

	resp, err := h.service.CountryMonth(country, c.Query("month"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(resp)
}

// monthlyAverage is not guarded per segment: a missing path is an internal
// error, not a 404.
func (h *lookupHandler) monthlyAverage(c *fiber.Ctx) error {
	r, err := h.service.MonthlyRecord(pathParam(c, "country"), pathParam(c, "city"), pathParam(c, "month"))
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// pathParam decodes a route segment after matching, so an escaped "/" stays
// inside its segment. Malformed escapes are passed through as sent.
func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	v, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return v
}

func toHTTPError(err error) error {
	var nf *weather.NotFoundError
	if errors.As(err, &nf) {
		return fiber.NewError(fiber.StatusNotFound, nf.Detail)
	}
	return err
}
