// Command initdb initializes or resets the actions database. Without flags
// it creates the schema if missing; with -reset it drops and recreates the
// actions table, destroying all stored data.
package main

import (
	"flag"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/akratos/go-actions-backend/internal/config"
	"github.com/akratos/go-actions-backend/internal/repo"
	"github.com/akratos/go-actions-backend/internal/sysutil"
)

func main() {
	var (
		reset   = flag.Bool("reset", false, "drop and recreate the actions table")
		confirm = flag.Bool("yes", false, "confirm destructive reset")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad()
	sysutil.SetLogLevel(cfg.LogLevel)

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}

	if *reset {
		if !*confirm {
			log.Fatal().Msg("reset destroys all data; pass -yes to confirm")
		}
		if err := repo.Reset(db); err != nil {
			log.Fatal().Err(err).Msg("reset failed")
		}
		log.Info().Str("path", cfg.DBPath).Msg("store reset")
		return
	}

	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
	log.Info().Str("path", cfg.DBPath).Msg("schema ready")
}
