package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yoakh/thewheelofthefortune/assets"
	"github.com/yoakh/thewheelofthefortune/internal/catalog"
	"github.com/yoakh/thewheelofthefortune/internal/config"
	"github.com/yoakh/thewheelofthefortune/internal/db"
	"github.com/yoakh/thewheelofthefortune/internal/httpserver"
	"github.com/yoakh/thewheelofthefortune/internal/store"
)

func main() {
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if cfg.Production() && cfg.InsecureSecret() {
		log.Fatal().Msg("JWT_SECRET must be set in production")
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	cat := catalog.Load(catalog.Sources{WheelFile: cfg.WheelFile, PhrasesFile: cfg.PhrasesFile})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := store.NewMemory(6 * time.Hour)
	go sessions.Janitor(ctx, 10*time.Minute)

	srv := httpserver.New(httpserver.Deps{Config: cfg, Catalog: cat, Sessions: sessions, DB: conn})
	log.Info().Str("port", cfg.Port).Str("catalog", cat.Source()).Msg("starting wheel server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("server stopped")
}
