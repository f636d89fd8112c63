// Package app wires configuration into a ready relay dispatcher. The bot and
// the operator CLI share it.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/keshon/coinbridge/internal/config"
	"github.com/keshon/coinbridge/internal/economy"
	"github.com/keshon/coinbridge/internal/fallback"
	"github.com/keshon/coinbridge/internal/logging"
	"github.com/keshon/coinbridge/internal/relay"
)

// NewRelay builds the economy client, the optional fallback store (seeded from
// FALLBACK_SEED) and the dispatcher over them.
func NewRelay(cfg *config.Config, logger zerolog.Logger) (*relay.Dispatcher, error) {
	client := economy.NewClient(economy.Options{
		BaseURL:      cfg.BaseURL(),
		APIKey:       cfg.APIKey,
		CallTimeout:  cfg.CallTimeout,
		ProbeTimeout: cfg.ProbeTimeout,
		Logger:       logging.Component(logger, "economy"),
	})

	var store *fallback.Store
	if cfg.FallbackEnabled {
		store = fallback.New(fallback.Options{CodeTTL: cfg.LinkCodeTTL})

		seed, err := fallback.LoadSeed(cfg.FallbackSeedPath)
		if err != nil {
			return nil, fmt.Errorf("fallback store: %w", err)
		}
		store.Apply(seed)

		stats := store.Stats()
		logger.Info().
			Str("seed", cfg.FallbackSeedPath).
			Int("links", stats.Links).
			Int("balances", stats.Balances).
			Msg("fallback store ready")
	} else {
		logger.Warn().Msg("fallback store disabled, every action fails while the economy api is down")
	}

	if cfg.APIKey == "" {
		logger.Warn().Msg("API_KEY is empty, the economy api will likely reject requests")
	}

	return relay.New(client, store, relay.Options{
		TopLimit: cfg.TopLimit,
		Logger:   logging.Component(logger, "relay"),
	}), nil
}
