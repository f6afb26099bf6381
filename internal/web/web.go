// Package web serves the embedded browser UI. The page is plain HTML and
// JS talking to the JSON API; view, chart-type and data-type selection are
// browser-side state.
package web

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed index.html
var indexHTML []byte

// Index serves the single-page dashboard UI.
func Index(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(indexHTML)
}
