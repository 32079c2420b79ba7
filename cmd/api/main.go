package main

import (
	"context"
	"os"
	"time"

	"folio-backend/internal/app"
	"folio-backend/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	fiberApp, rdb, err := app.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create failed")
	}

	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable; quote cache and traffic counters disabled")
		} else {
			log.Info().Msg("Redis connected")
		}
	}

	log.Info().
		Str("port", cfg.Port).
		Str("holdings_api", cfg.HoldingsAPIURL).
		Str("finance_api", cfg.FinanceAPIURL).
		Int64("account_id", cfg.AccountID).
		Msg("Server starting")

	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
