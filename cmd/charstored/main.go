// Command charstored runs the character catalog HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/marvelcat/charstore/internal/api"
	"github.com/marvelcat/charstore/internal/auth"
	"github.com/marvelcat/charstore/internal/catalog"
	"github.com/marvelcat/charstore/internal/enrich"
	"github.com/marvelcat/charstore/internal/exchange"
	"github.com/marvelcat/charstore/internal/store"
)

type config struct {
	Addr       string `env:"CHARSTORE_ADDR" envDefault:":8080"`
	DataFile   string `env:"CHARSTORE_DATA_FILE" envDefault:"data.csv"`
	UsersFile  string `env:"CHARSTORE_USERS_FILE" envDefault:"users.csv"`
	JWTSecret  string `env:"CHARSTORE_JWT_SECRET,required"`
	MarvelBase string `env:"CHARSTORE_MARVEL_URL"`
	MarvelPub  string `env:"CHARSTORE_MARVEL_PUBLIC_KEY,required"`
	MarvelPriv string `env:"CHARSTORE_MARVEL_PRIVATE_KEY,required"`
	FXBase     string `env:"CHARSTORE_EXCHANGE_URL"`
	FXKey      string `env:"CHARSTORE_EXCHANGE_API_KEY,required"`
	LogLevel   string `env:"CHARSTORE_LOG_LEVEL" envDefault:"info"`
}

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	characters := store.NewCSVCharacterTable(cfg.DataFile)
	if err := characters.Init(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.DataFile).Msg("character table init failed")
	}
	accounts := store.NewCSVAccountTable(cfg.UsersFile)
	if err := accounts.Init(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.UsersFile).Msg("account table init failed")
	}

	enricher := enrich.NewClient(cfg.MarvelBase, cfg.MarvelPub, cfg.MarvelPriv)
	converter := exchange.NewClient(cfg.FXBase, cfg.FXKey)

	svc := catalog.NewService(characters, enricher, converter, log)
	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret))
	registry := auth.NewRegistry(accounts, issuer, log)

	gin.SetMode(gin.ReleaseMode)
	handler := &api.Handler{Catalog: svc, Accounts: registry, Log: log}
	router := api.NewRouter(handler, issuer, log)

	srv := &http.Server{Addr: cfg.Addr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("charstored listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown did not complete cleanly")
	}
}
