package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/letterbox-games/gridword/internal/config"
	"github.com/letterbox-games/gridword/internal/database"
	"github.com/letterbox-games/gridword/internal/database/migrations"
	"github.com/letterbox-games/gridword/internal/httpserver"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	srv := httpserver.New(cfg, db)
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := srv.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure admin user")
		}
	}

	log.Info().Str("addr", cfg.HTTPAddr).Msg("starting gridword server")
	if err := srv.Start(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
