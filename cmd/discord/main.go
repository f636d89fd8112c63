// cmd/discord/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	_ "github.com/keshon/coinbridge/internal/commands/core"
	_ "github.com/keshon/coinbridge/internal/commands/economy"

	"github.com/keshon/coinbridge/internal/app"
	"github.com/keshon/coinbridge/internal/config"
	"github.com/keshon/coinbridge/internal/discord"
	"github.com/keshon/coinbridge/internal/logging"
	"github.com/keshon/coinbridge/internal/metrics"
	v "github.com/keshon/coinbridge/internal/version"
	"github.com/keshon/coinbridge/pkg/cooldown"
	"github.com/keshon/coinbridge/pkg/jobmgr"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if !cfg.EnvFileLoaded {
		logger.Debug().Msg("no .env file found, using process environment")
	}

	// Without a token nothing else is started.
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("add DISCORD_TOKEN to .env or the environment")
		os.Exit(1)
	}

	logger.Info().Str("version", v.String()).Str("api", cfg.BaseURL()).Msgf("starting %s bot", v.AppName)

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("bot stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("discord bot exited cleanly")
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher, err := app.NewRelay(cfg, logger)
	if err != nil {
		return err
	}

	limiter := cooldown.New(cfg.CommandCooldown, 1)

	jobs := jobmgr.NewManager(logging.Component(logger, "jobs"))
	defer jobs.StopAll()

	if cfg.ProbeInterval > 0 {
		if err := jobs.StartAsync(ctx, "economy-watch", func(ctx context.Context) error {
			return dispatcher.Watch(ctx, cfg.ProbeInterval)
		}); err != nil {
			return err
		}
	}
	if cfg.CommandCooldown > 0 {
		if err := jobs.StartAsync(ctx, "cooldown-sweep", func(ctx context.Context) error {
			return sweep(ctx, limiter, time.Minute)
		}); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	bot := discord.NewBot(discord.Options{
		Token:    cfg.DiscordToken,
		GuildID:  cfg.DiscordGuildID,
		Relay:    dispatcher,
		Cooldown: limiter,
		Logger:   logging.Component(logger, "discord"),
	})
	g.Go(func() error { return bot.Run(gctx) })

	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, func(ctx context.Context) bool {
			return dispatcher.Status(ctx).APIAvailable
		}, logging.Component(logger, "metrics"))
		g.Go(func() error { return srv.Run(gctx) })
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Wait()
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		return <-errCh
	case err := <-errCh:
		cancel()
		return err
	}
}

// sweep drops idle cooldown keys until ctx is done.
func sweep(ctx context.Context, limiter *cooldown.Limiter, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			limiter.Sweep(10 * time.Minute)
		}
	}
}
