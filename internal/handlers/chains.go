package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shruggr/go-txpreview/internal/preview"
)

type ChainsHandler struct {
	previews *preview.Service
}

func NewChainsHandler(previews *preview.Service) *ChainsHandler {
	return &ChainsHandler{
		previews: previews,
	}
}

// List never fails; the fallback chain list stands in for upstream errors.
func (h *ChainsHandler) List(c *fiber.Ctx) error {
	c.Set("Cache-Control", "public, max-age=300")
	return c.JSON(h.previews.Chains(c.UserContext()))
}
