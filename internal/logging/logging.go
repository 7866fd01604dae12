// Package logging configures the process logger and the HTTP access log.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// RequestIDKey is the fiber locals key the request id middleware stores under.
const RequestIDKey = "requestid"

// New returns a tint-backed slog logger writing to w. Colors are only used
// when w is a terminal.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	f, ok := w.(*os.File)
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !ok || !isatty.IsTerminal(f.Fd()),
	}))
}

// AccessLog logs one line per request. Errors returned by later handlers are
// rendered here through the app's error handler so the logged status is the
// one the client receives.
func AccessLog(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID, _ := c.Locals(RequestIDKey).(string)
		l := logger.With(
			slog.String("req_id", reqID),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("remote_addr", c.IP()),
			slog.String("user_agent", c.Get(fiber.HeaderUserAgent)),
		)

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}

		l.Log(c.UserContext(), level, "request completed",
			slog.Int("status", status),
			slog.Int("bytes_written", len(c.Response().Body())),
			slog.Duration("latency", time.Since(start)),
		)
		return nil
	}
}
