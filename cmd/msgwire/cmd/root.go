package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"msgwire/codec"
	"msgwire/config"
	"msgwire/middleware"
)

// app is the state shared by subcommands, built once per invocation.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	binary *codec.BinaryCodec // Raw wire codec, used for framing and layout
	wire   codec.Codec        // binary wrapped in the configured middleware
}

func newApp(cfg *config.Config, logOut io.Writer) *app {
	logger := cfg.NewLogger(logOut)
	binary := codec.NewBinaryCodec(cfg.MaxMessageSize)

	mws := []middleware.Middleware{middleware.LoggingMiddleware(logger)}
	if cfg.RateLimit.PerSecond > 0 {
		mws = append(mws, middleware.RateLimitMiddleware(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst))
	}
	return &app{
		cfg:    cfg,
		logger: logger,
		binary: binary,
		wire:   middleware.Wrap(binary, mws...),
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile  string
		logLevel string
		a        = new(app)
	)

	rootCmd := &cobra.Command{
		Use:   "msgwire",
		Short: "msgwire - binary message record codec",
		Long: `msgwire encodes message records (body, sender, id, recipients, type)
into a compact length-prefixed binary format and back.

Binary streams are sequences of records, each starting with its own
4-byte little-endian length header.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			*a = *newApp(cfg, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newInspectCmd(a),
		newNewCmd(a),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// openInput returns stdin for "-" or an empty path.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

// openOutput returns stdout for "-" or an empty path.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
