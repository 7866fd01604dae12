package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>weather-history API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      SwaggerUIBundle({url: "/.well-known/openapi.json", dom_id: "#swagger-ui"});
    };
  </script>
</body>
</html>
`

// RegisterDocs mounts the root redirect, the docs page and the static
// /.well-known directory. An empty dir skips the static mount.
func RegisterDocs(app *fiber.App, wellKnownDir string) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/docs", fiber.StatusMovedPermanently)
	})

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.SendString(docsPage)
	})

	if wellKnownDir != "" {
		app.Static("/.well-known", wellKnownDir)
	}
}
