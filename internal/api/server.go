package api

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shruggr/go-txpreview/internal/cache"
	"github.com/shruggr/go-txpreview/internal/config"
	"github.com/shruggr/go-txpreview/internal/handlers"
	"github.com/shruggr/go-txpreview/internal/icons"
	"github.com/shruggr/go-txpreview/internal/noves"
	"github.com/shruggr/go-txpreview/internal/preview"
	"github.com/shruggr/go-txpreview/internal/render"
)

func NewServer(cfg *config.Config, redisCache *cache.RedisCache) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName: "go-txpreview",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
		},
	}

	translator := noves.New(cfg.NovesURL, cfg.NovesAPIKey,
		noves.WithHTTPClient(httpClient),
		noves.WithMaxTries(cfg.NovesMaxTries),
	)
	resolver := icons.NewResolver(cfg.AssetsURL, httpClient, redisCache, cfg.CacheTTL)
	previews := preview.New(translator, resolver, redisCache, cfg.CacheTTL, preview.LoadBackground(cfg.BackgroundPath))

	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	frontendHandler, err := handlers.NewFrontendHandler(previews, resolver, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize frontend handler: %w", err)
	}

	chainsHandler := handlers.NewChainsHandler(previews)
	txHandler := handlers.NewTxHandler(previews)
	imageHandler := handlers.NewImageHandler(previews, renderer, cfg.IsDevelopment())
	iconHandler := handlers.NewIconHandler(resolver)

	setupRoutes(app, chainsHandler, txHandler, imageHandler, iconHandler, frontendHandler)

	return app, nil
}
