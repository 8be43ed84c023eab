package config

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel parses Logging.Level; empty means info.
func (c *Config) LogLevel() (zerolog.Level, error) {
	if strings.TrimSpace(c.Logging.Level) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(c.Logging.Level))
}

// NewLogger builds the logger described by Logging, writing to w.
func (c *Config) NewLogger(w io.Writer) zerolog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.EqualFold(c.Logging.Format, "json") {
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
