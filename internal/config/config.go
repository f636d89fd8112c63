// Package config loads process configuration from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingToken is returned by Validate when no bot token is configured.
var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

type Config struct {
	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID"`

	APIKey      string        `env:"API_KEY"`
	APIScheme   string        `env:"API_SCHEME" envDefault:"http"`
	APIHost     string        `env:"API_HOST" envDefault:"localhost"`
	APIPort     int           `env:"API_PORT" envDefault:"8080"`
	APIBasePath string        `env:"API_BASE_PATH" envDefault:"/api"`
	CallTimeout time.Duration `env:"API_TIMEOUT" envDefault:"5s"`

	ProbeTimeout  time.Duration `env:"API_PROBE_TIMEOUT" envDefault:"2s"`
	ProbeInterval time.Duration `env:"API_PROBE_INTERVAL" envDefault:"30s"`

	FallbackEnabled  bool          `env:"FALLBACK_ENABLED" envDefault:"true"`
	FallbackSeedPath string        `env:"FALLBACK_SEED"`
	LinkCodeTTL      time.Duration `env:"LINK_CODE_TTL" envDefault:"5m"`

	TopLimit        int           `env:"TOP_LIMIT" envDefault:"10"`
	CommandCooldown time.Duration `env:"COMMAND_COOLDOWN" envDefault:"3s"`

	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9102"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	LogFile   string `env:"LOG_FILE"`

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool `env:"-"`
}

// Load reads .env (if present) and parses the environment into a Config.
// It does not require the bot token; call Validate for that.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := godotenv.Load(); err == nil {
		cfg.EnvFileLoaded = true
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	// TOKEN is the legacy variable name used by older deployments.
	if cfg.DiscordToken == "" {
		cfg.DiscordToken = os.Getenv("TOKEN")
	}

	if cfg.TopLimit <= 0 {
		cfg.TopLimit = 10
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return nil, fmt.Errorf("API_PORT out of range: %d", cfg.APIPort)
	}

	return cfg, nil
}

// Validate checks the settings the Discord bot cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DiscordToken) == "" {
		return ErrMissingToken
	}
	return nil
}

// BaseURL returns the economy API root, e.g. http://localhost:8080/api.
func (c *Config) BaseURL() string {
	u := url.URL{
		Scheme: c.APIScheme,
		Host:   c.APIHost + ":" + strconv.Itoa(c.APIPort),
		Path:   "/" + strings.Trim(c.APIBasePath, "/"),
	}
	return strings.TrimRight(u.String(), "/")
}
