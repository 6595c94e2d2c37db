package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BotToken        string        `env:"BOT_TOKEN"`
	TelegramBaseURL string        `env:"TELEGRAM_BASE_URL" envDefault:"https://api.telegram.org"`
	TelegramTimeout time.Duration `env:"TELEGRAM_TIMEOUT" envDefault:"65s"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	DeckFile        string        `env:"DECK_FILE"`
	ProfileDB       string        `env:"PROFILE_DB" envDefault:"oracle.db"`
	ShareDir        string        `env:"SHARE_DIR" envDefault:"shares"`
	ShareBackground string        `env:"SHARE_BACKGROUND"`
	ShareFont       string        `env:"SHARE_FONT"`
	EditCacheSize   int           `env:"EDIT_CACHE_SIZE" envDefault:"1024"`
	LastCardSize    int           `env:"LAST_CARD_CACHE_SIZE" envDefault:"1024"`
	LogLevelRaw     string        `env:"LOG_LEVEL" envDefault:"info"`

	LogLevel slog.Level `env:"-"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	level, err := parseLogLevel(c.LogLevelRaw)
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

// BotEnabled reports whether a Telegram token is configured. Without one
// the process serves the HTTP surface only.
func (c Config) BotEnabled() bool {
	return c.BotToken != ""
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
