package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shruggr/go-txpreview/docs"
	"github.com/shruggr/go-txpreview/frontend"
	"github.com/shruggr/go-txpreview/internal/handlers"
)

func setupRoutes(app *fiber.App, chainsHandler *handlers.ChainsHandler, txHandler *handlers.TxHandler, imageHandler *handlers.ImageHandler, iconHandler *handlers.IconHandler, frontendHandler *handlers.FrontendHandler) {
	app.Use("/public", filesystem.New(filesystem.Config{
		Root: http.FS(frontend.Public()),
	}))

	app.Get("/docs/swagger.yaml", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "application/yaml")
		return c.Send(docs.Swagger)
	})
	app.Get("/docs/*", swagger.New(swagger.Config{
		URL:             "/docs/swagger.yaml",
		DeepLinking:     true,
		DocExpansion:    "list",
		TryItOutEnabled: true,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/api/chains", chainsHandler.List)
	app.Get("/api/tx/:chain/:txHash", txHandler.GetTransaction)
	app.Get("/api/icons/:chain", iconHandler.GetIcon)

	app.Get("/", frontendHandler.RenderIndex)
	app.Get("/:chain/:txHash/og-image", imageHandler.GetOGImage)
	app.Get("/:chain/:txHash", frontendHandler.RenderTransaction)

	app.Use(frontendHandler.Render404)
}
