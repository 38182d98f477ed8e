// main.go
//
// Entry point for the Codenames server: load configuration, open the SQLite
// store, load the board word list, and serve the HTTP API.

package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codenames/internal/config"
	"github.com/robalobadob/codenames/internal/httpserver"
	"github.com/robalobadob/codenames/internal/service"
	"github.com/robalobadob/codenames/internal/storage/sqlite"
	"github.com/robalobadob/codenames/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open store")
	}
	defer store.Close()

	list, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	log.Info().Int("words", list.Len()).Msg("word list loaded")

	svc := service.New(store, list, nil)
	srv := httpserver.New(cfg, svc, store)
	log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("starting codenames server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
