// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level  string // trace, debug, info, warn, error
	Format string // console or json
	File   string // optional rotating log file

	// Out overrides stderr, mostly for tests.
	Out io.Writer
}

// Setup builds the root logger, installs it as zerolog's global logger and
// returns it. Unknown levels fall back to info.
func Setup(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var console io.Writer = out
	if !strings.EqualFold(opts.Format, "json") {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}

	writer := console
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writer = zerolog.MultiLevelWriter(console, rotating)
	}

	logger := zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// Component returns a child logger tagged with the component name.
func Component(parent zerolog.Logger, name string) zerolog.Logger {
	return parent.With().Str("component", name).Logger()
}
