package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shruggr/go-txpreview/internal/icons"
	"github.com/shruggr/go-txpreview/internal/preview"
)

type IconHandler struct {
	resolver *icons.Resolver
}

func NewIconHandler(resolver *icons.Resolver) *IconHandler {
	return &IconHandler{
		resolver: resolver,
	}
}

// GetIcon redirects to the hosted chain logo, or serves the generated icon
// when there is none.
func (h *IconHandler) GetIcon(c *fiber.Ctx) error {
	chain := param(c, "chain")
	if !preview.ValidChain(chain) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid chain",
		})
	}

	if h.resolver.Exists(c.UserContext(), chain) {
		c.Set("Cache-Control", "public, max-age=3600")
		return c.Redirect(h.resolver.LogoURL(chain), fiber.StatusFound)
	}

	c.Set("Content-Type", "image/svg+xml")
	c.Set("Cache-Control", "public, max-age=3600")
	return c.SendString(icons.SVG(chain))
}
