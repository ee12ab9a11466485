package handlers

import (
	"bytes"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shruggr/go-txpreview/internal/preview"
	"github.com/shruggr/go-txpreview/internal/render"
)

const (
	cacheImmutable = "public, immutable, no-transform, max-age=31536000"
	cacheDegraded  = "public, max-age=60"
	cacheNone      = "no-cache, no-store"
)

type ImageHandler struct {
	previews    *preview.Service
	renderer    *render.Renderer
	development bool
}

func NewImageHandler(previews *preview.Service, renderer *render.Renderer, development bool) *ImageHandler {
	return &ImageHandler{
		previews:    previews,
		renderer:    renderer,
		development: development,
	}
}

// GetOGImage renders the preview card. Upstream failures yield a card with
// default text rather than an error response.
func (h *ImageHandler) GetOGImage(c *fiber.Ctx) error {
	ref := referenceFromParams(c)

	card, ok := h.previews.Card(c.UserContext(), ref)

	var buf bytes.Buffer
	if err := h.renderer.Render(c.UserContext(), &buf, card); err != nil {
		slog.Error("Failed to render preview", "chain", ref.Chain, "txHash", ref.TxHash, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render preview",
		})
	}

	c.Set("Content-Type", "image/png")
	switch {
	case h.development:
		c.Set("Cache-Control", cacheNone)
	case !ok:
		c.Set("Cache-Control", cacheDegraded)
	default:
		c.Set("Cache-Control", cacheImmutable)
	}

	if c.Method() == fiber.MethodHead {
		return nil
	}

	return c.Send(buf.Bytes())
}
