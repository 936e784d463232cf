package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/inarow/pkg/config"
	"github.com/matzehuels/inarow/pkg/errors"
	"github.com/matzehuels/inarow/pkg/solver"
	"github.com/matzehuels/inarow/pkg/store"
	"github.com/matzehuels/inarow/pkg/vault"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "inarow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	errOut     io.Writer
	configPath string
}

// New creates a new CLI instance logging to w. Command output goes to
// stdout and progress indicators to stderr.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output and progress indicators.
func (c *CLI) SetOutput(out, progress io.Writer) {
	c.out = out
	c.errOut = progress
}

// =============================================================================
// Backend Factory
// =============================================================================

// backend is an opened configuration: the store and the vault over it.
type backend struct {
	cfg   config.Config
	store store.Store
	vault *vault.Vault
}

// loadConfig reads --config, or the default path when the flag is unset.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	c.Logger.Debug("loaded config", "path", path, "store", cfg.Store.Backend)
	return cfg, nil
}

// open loads the configuration and connects to its store. The caller must
// close the returned backend.
func (c *CLI) open(ctx context.Context) (*backend, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	d, err := cfg.Digester()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "hash algorithm")
	}
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s store", cfg.Store.Backend)
	}
	v := vault.New(s, d, cfg.Bounds(), vault.WithCompression(cfg.Store.Compress))
	return &backend{cfg: cfg, store: s, vault: v}, nil
}

// builder returns a solver configured from b.
func (b *backend) builder(logger *log.Logger) *solver.Builder {
	mode, _ := b.cfg.Mode() // validated by config.Load
	return solver.NewBuilder(b.vault, solver.Options{
		Logger:  logger,
		Mode:    mode,
		Workers: b.cfg.Workers,
	})
}

func (b *backend) Close() error {
	return b.store.Close()
}

// =============================================================================
// Command Helpers
// =============================================================================

// withBackend opens the configured backend for the duration of fn.
func (c *CLI) withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *backend) error) error {
	ctx := cmd.Context()
	b, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()
	return fn(ctx, b)
}
