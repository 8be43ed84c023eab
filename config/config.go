// Package config loads msgwire settings from YAML, .env and the environment.
//
// Precedence, lowest first: DefaultConfig, the YAML file, MSGWIRE_*
// environment variables (a .env file in the working directory is loaded into
// the environment first and never overrides variables already set).
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"msgwire/codec"
	"msgwire/message"
)

// Config is the msgwire configuration.
type Config struct {
	Codec          string    `yaml:"codec"`            // Output format of decode and new: json, msgpack or binary
	MaxMessageSize uint32    `yaml:"max_message_size"` // Cap on total_length, 0 for the u32 limit
	IDScheme       string    `yaml:"id_scheme"`        // uuid or ksuid
	Logging        Logging   `yaml:"logging"`
	RateLimit      RateLimit `yaml:"rate_limit"`
}

// Logging configures the zerolog logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// RateLimit throttles decoding. PerSecond <= 0 disables it.
type RateLimit struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Codec:          "json",
		MaxMessageSize: codec.DefaultMaxSize,
		IDScheme:       "uuid",
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("MSGWIRE_CODEC"); ok {
		c.Codec = v
	}
	if v, ok := lookup("MSGWIRE_ID_SCHEME"); ok {
		c.IDScheme = v
	}
	if v, ok := lookup("MSGWIRE_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup("MSGWIRE_LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	if v, ok := lookup("MSGWIRE_MAX_MESSAGE_SIZE"); ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid MSGWIRE_MAX_MESSAGE_SIZE %q: %w", v, err)
		}
		c.MaxMessageSize = uint32(n)
	}
	if v, ok := lookup("MSGWIRE_RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid MSGWIRE_RATE_LIMIT %q: %w", v, err)
		}
		c.RateLimit.PerSecond = f
	}
	if v, ok := lookup("MSGWIRE_RATE_BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MSGWIRE_RATE_BURST %q: %w", v, err)
		}
		c.RateLimit.Burst = n
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate checks that every named option is known.
func (c *Config) Validate() error {
	if _, err := codec.ParseCodecType(c.Codec); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := message.GeneratorByName(c.IDScheme); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid config: unknown log format %q", c.Logging.Format)
	}
	if c.RateLimit.PerSecond > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("invalid config: rate_limit.burst must be at least 1")
	}
	if math.IsNaN(c.RateLimit.PerSecond) {
		return fmt.Errorf("invalid config: rate_limit.per_second is NaN")
	}
	return nil
}

// CodecType returns the configured codec.
func (c *Config) CodecType() codec.CodecType {
	ct, err := codec.ParseCodecType(c.Codec)
	if err != nil {
		return codec.CodecTypeBinary
	}
	return ct
}
