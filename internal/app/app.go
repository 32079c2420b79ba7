// Package app builds the Fiber application: global middleware, upstream
// clients, the portfolio controller and all route registration.
package app

import (
	"folio-backend/internal/clients/holdings"
	"folio-backend/internal/clients/quotes"
	"folio-backend/internal/config"
	"folio-backend/internal/health"
	"folio-backend/internal/middleware"
	"folio-backend/internal/portfolio"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// CreateApp wires the Fiber app. The Redis client is nil when REDIS_URL is
// unset; the quote cache and traffic counters degrade gracefully without it.
func CreateApp(cfg *config.Config) (*fiber.App, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		IsProduction:   cfg.Env == "production",
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	healthHandlers := &health.Handlers{
		Rdb: rdb,
		Upstreams: health.Upstreams{
			HoldingsAPIURL: cfg.HoldingsAPIURL,
			FinanceAPIURL:  cfg.FinanceAPIURL,
		},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	repo := holdings.NewClient(cfg.HoldingsAPIURL)

	var quoteCache *quotes.Cache
	if rdb != nil {
		quoteCache = quotes.NewCache(rdb, cfg.QuoteCacheTTL)
	}
	gateway := quotes.NewClient(cfg.FinanceAPIURL, quoteCache, cfg.QuoteRateLimit)

	svc := portfolio.NewService(repo, gateway, cfg.AccountID, cfg.RequestTimeout)
	handlers := &portfolio.Handlers{Service: svc}

	group := app.Group("/api/v1/portfolio")
	group.Get("/holdings", handlers.GetHoldings)
	group.Post("/holdings", handlers.AddHolding)
	group.Put("/holdings/:id", handlers.UpdateHolding)
	group.Delete("/holdings/:id", handlers.DeleteHolding)
	group.Get("/summary", handlers.GetSummary)
	group.Get("/sectors", handlers.GetSectors)
	group.Get("/sectors/:sector/stocks", handlers.GetStocksBySector)
	group.Put("/sectors/:sector", handlers.RenameSector)
	group.Post("/refresh", handlers.Refresh)
	group.Post("/prices", handlers.RefreshPrices)

	return app, rdb, nil
}
