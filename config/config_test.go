package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msgwire/codec"
)

// inTempDir runs the test from an empty directory so no stray .env is loaded.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, codec.CodecTypeJSON, cfg.CodecType())
	assert.Equal(t, uint32(codec.DefaultMaxSize), cfg.MaxMessageSize)
	assert.Equal(t, "uuid", cfg.IDScheme)
}

func TestLoadYAML(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "msgwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
codec: msgpack
max_message_size: 4096
id_scheme: ksuid
logging:
  level: debug
  format: json
rate_limit:
  per_second: 100
  burst: 10
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, codec.CodecTypeMsgPack, cfg.CodecType())
	assert.Equal(t, uint32(4096), cfg.MaxMessageSize)
	assert.Equal(t, "ksuid", cfg.IDScheme)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 100.0, cfg.RateLimit.PerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "msgwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codec: msgpack\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, codec.CodecTypeMsgPack, cfg.CodecType())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, uint32(codec.DefaultMaxSize), cfg.MaxMessageSize)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "msgwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codec: json\nmax_message_size: 100\n"), 0o600))

	t.Setenv("MSGWIRE_CODEC", "binary")
	t.Setenv("MSGWIRE_MAX_MESSAGE_SIZE", "2048")
	t.Setenv("MSGWIRE_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, codec.CodecTypeBinary, cfg.CodecType())
	assert.Equal(t, uint32(2048), cfg.MaxMessageSize)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MSGWIRE_ID_SCHEME=ksuid\n"), 0o600))
	// Keep the process environment clean once the test is done.
	t.Setenv("MSGWIRE_ID_SCHEME", "")
	require.NoError(t, os.Unsetenv("MSGWIRE_ID_SCHEME"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ksuid", cfg.IDScheme)
}

func TestLoadErrors(t *testing.T) {
	dir := inTempDir(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("codec: [unclosed"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("MSGWIRE_MAX_MESSAGE_SIZE", "lots")
	_, err = Load("")
	assert.ErrorContains(t, err, "MSGWIRE_MAX_MESSAGE_SIZE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown codec", func(c *Config) { c.Codec = "protobuf" }},
		{"unknown id scheme", func(c *Config) { c.IDScheme = "snowflake" }},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }},
		{"rate without burst", func(c *Config) { c.RateLimit = RateLimit{PerSecond: 5} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logging = Logging{Level: "warn", Format: "json"}

	logger := cfg.NewLogger(&buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}
