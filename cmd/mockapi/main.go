// Command mockapi serves an in-memory game economy speaking the same REST
// protocol as the game-server plugin, for running the bot without a server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/keshon/coinbridge/internal/fallback"
	"github.com/keshon/coinbridge/internal/logging"
	"github.com/keshon/coinbridge/internal/mockapi"
)

type mockConfig struct {
	Addr      string        `env:"MOCKAPI_ADDR" envDefault:":8080"`
	APIKey    string        `env:"API_KEY"`
	SeedPath  string        `env:"MOCKAPI_SEED"`
	CodeTTL   time.Duration `env:"LINK_CODE_TTL" envDefault:"5m"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"LOG_FORMAT" envDefault:"console"`
}

func main() {
	_ = godotenv.Load()

	var cfg mockConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	seed, err := fallback.LoadSeed(cfg.SeedPath)
	if err != nil {
		logger.Error().Err(err).Msg("cannot load seed")
		os.Exit(1)
	}

	econ := mockapi.New(mockapi.Options{CodeTTL: cfg.CodeTTL})
	econ.Apply(seed)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mockapi.NewHandler(econ, cfg.APIKey, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Int("players", len(econ.Top(0))).Msg("mock economy api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server failed")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
