package httpapi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/i474232898/weather-history/internal/logging"
	"github.com/i474232898/weather-history/internal/metrics"
	"github.com/i474232898/weather-history/internal/weather"
)

// ServiceName is reported by the health endpoint and used as the fiber app name.
const ServiceName = "weather-history"

// Options configures the fiber app. Zero values fall back to defaults.
type Options struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	WellKnownDir string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(service *weather.Service, opts Options) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:               ServiceName,
		DisableStartupMessage: true,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		Immutable:             true,
		ErrorHandler:          errorHandler(opts.Logger),
	})

	// Global middleware. recover sits inside metrics and the access log so a
	// panicking handler is still counted and logged as a 500.
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: logging.RequestIDKey,
	}))
	if opts.Metrics != nil {
		app.Use(opts.Metrics.Middleware())
	}
	app.Use(logging.AccessLog(opts.Logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,HEAD,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": ServiceName,
			"dataset": service.Stats(),
		})
	})
	if opts.Metrics != nil {
		app.Get("/metrics", opts.Metrics.Handler())
	}

	RegisterDocs(app, opts.WellKnownDir)
	RegisterRoutes(app, service, opts.Logger)

	return app
}

// errorHandler renders every error as {"detail": ...}. Errors that are not
// *fiber.Error are internal faults: they are logged and reported as a plain 500.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := utils.StatusMessage(code)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			detail = fe.Message
		} else {
			reqID, _ := c.Locals(logging.RequestIDKey).(string)
			logger.Error("unhandled request error",
				slog.String("req_id", reqID),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"detail": detail,
		})
	}
}
