package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shruggr/go-txpreview/internal/preview"
)

type TxHandler struct {
	previews *preview.Service
}

func NewTxHandler(previews *preview.Service) *TxHandler {
	return &TxHandler{
		previews: previews,
	}
}

// GetTransaction forwards the upstream transaction record as-is.
func (h *TxHandler) GetTransaction(c *fiber.Ctx) error {
	ref := referenceFromParams(c)
	if err := validateReference(ref); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	tx, err := h.previews.Transaction(c.UserContext(), ref)
	if err != nil {
		slog.Error("Transaction error", "chain", ref.Chain, "txHash", ref.TxHash, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to fetch transaction details",
		})
	}

	if len(tx.Raw) == 0 {
		return c.JSON(tx)
	}
	c.Set("Content-Type", fiber.MIMEApplicationJSON)
	return c.Send(tx.Raw)
}
