// Command cli drives the economy relay from a terminal, without Discord. It
// reads the same configuration as the bot and is handy for checking an API
// deployment or the fallback seed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keshon/coinbridge/internal/app"
	"github.com/keshon/coinbridge/internal/config"
	"github.com/keshon/coinbridge/internal/logging"
	"github.com/keshon/coinbridge/internal/relay"
	v "github.com/keshon/coinbridge/internal/version"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// logLevel is raised by --verbose.
var logLevel = "warn"

func rootCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:           "coinbridge",
		Short:         v.AppDescription,
		Version:       v.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logLevel = "debug"
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(statusCmd())
	cmd.AddCommand(balanceCmd())
	cmd.AddCommand(transferCmd())
	cmd.AddCommand(linkCmd())
	cmd.AddCommand(topCmd())
	return cmd
}

// loadRelay builds the dispatcher from .env and the environment. Logs go to
// stderr so stdout stays clean for --json.
func loadRelay() (*relay.Dispatcher, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(logging.Options{
		Level:  logLevel,
		Format: cfg.LogFormat,
		Out:    os.Stderr,
	})
	return app.NewRelay(cfg, logger)
}

func exitOnFailure(cmd *cobra.Command, reply *relay.Reply) error {
	if reply.OK() {
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Error:", reply.Failure.Message)
	return reply.Err()
}
