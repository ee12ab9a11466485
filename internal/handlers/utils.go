package handlers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shruggr/go-txpreview/internal/preview"
)

// referenceFromParams reads :chain and :txHash, unescaping and trimming them.
func referenceFromParams(c *fiber.Ctx) preview.Reference {
	return preview.Reference{
		Chain:  param(c, "chain"),
		TxHash: param(c, "txHash"),
	}
}

func param(c *fiber.Ctx, key string) string {
	value := c.Params(key)
	if unescaped, err := url.PathUnescape(value); err == nil {
		value = unescaped
	}
	return strings.TrimSpace(value)
}

// validateReference rejects references that cannot be sent upstream.
func validateReference(ref preview.Reference) error {
	if ref.Chain == "" || ref.TxHash == "" {
		return fmt.Errorf("chain and txHash required")
	}
	if !preview.ValidChain(ref.Chain) {
		return fmt.Errorf("invalid chain: %s", ref.Chain)
	}
	return nil
}
