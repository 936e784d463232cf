// Package config loads the inarow configuration file.
//
// Configuration is read with priority env > file > defaults. The file format
// follows the extension: .toml is decoded with BurntSushi/toml, .yaml and
// .yml with yaml.v3. A missing file is not an error.
//
//	max_rows = 8
//	max_cols = 8
//	hash_algorithm = "sha256"
//	propagation = "leaves"
//	workers = 4
//
//	[store]
//	backend = "redis"
//	addr = "localhost:6379"
//	namespace = "inarow:"
//
// Bounds and hash algorithm define state identity. Changing either makes
// every stored digest unreachable, so a store should only ever be used with
// one combination; a namespace per combination keeps them apart.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/inarow/pkg/grid"
	"github.com/matzehuels/inarow/pkg/solver"
	"github.com/matzehuels/inarow/pkg/state"
	"github.com/matzehuels/inarow/pkg/store"
)

const appName = "inarow"

// Config is the full application configuration.
type Config struct {
	MaxRows       int          `toml:"max_rows" yaml:"max_rows" json:"max_rows"`
	MaxCols       int          `toml:"max_cols" yaml:"max_cols" json:"max_cols"`
	HashAlgorithm string       `toml:"hash_algorithm" yaml:"hash_algorithm" json:"hash_algorithm"`
	Propagation   string       `toml:"propagation" yaml:"propagation" json:"propagation"`
	Workers       int          `toml:"workers" yaml:"workers" json:"workers"`
	Store         store.Config `toml:"store" yaml:"store" json:"store"`
}

// Default returns the built-in configuration: 8x8 bounds, sha256 digests,
// distinct-leaf counting and a file store in the user cache directory.
func Default() Config {
	st := store.DefaultConfig()
	st.Backend = store.BackendFile
	st.Dir = DefaultStateDir()
	return Config{
		MaxRows:       grid.DefaultBounds.MaxRows,
		MaxCols:       grid.DefaultBounds.MaxCols,
		HashAlgorithm: string(state.DefaultAlgorithm),
		Propagation:   string(solver.DefaultMode),
		Workers:       1,
		Store:         st,
	}
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	loadEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml", "":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

// loadEnv applies INAROW_* overrides. Malformed numbers are ignored.
func loadEnv(cfg *Config) {
	if v := os.Getenv("INAROW_MAX_ROWS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.MaxRows = i
		}
	}
	if v := os.Getenv("INAROW_MAX_COLS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.MaxCols = i
		}
	}
	if v := os.Getenv("INAROW_HASH_ALGORITHM"); v != "" {
		cfg.HashAlgorithm = v
	}
	if v := os.Getenv("INAROW_PROPAGATION"); v != "" {
		cfg.Propagation = v
	}
	if v := os.Getenv("INAROW_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Workers = i
		}
	}
	if v := os.Getenv("INAROW_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("INAROW_STORE_DIR"); v != "" {
		cfg.Store.Dir = v
	}
	if v := os.Getenv("INAROW_REDIS_ADDR"); v != "" {
		cfg.Store.Addr = v
	}
	if v := os.Getenv("INAROW_REDIS_PASSWORD"); v != "" {
		cfg.Store.Password = v
	}
	if v := os.Getenv("INAROW_MONGO_URI"); v != "" {
		cfg.Store.URI = v
	}
	if v := os.Getenv("INAROW_STORE_NAMESPACE"); v != "" {
		cfg.Store.Namespace = v
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if err := c.Bounds().Validate(); err != nil {
		return err
	}
	if _, err := c.Digester(); err != nil {
		return err
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return c.Store.Validate()
}

// Bounds returns the configured grid bounds.
func (c Config) Bounds() grid.Bounds {
	return grid.Bounds{MaxRows: c.MaxRows, MaxCols: c.MaxCols}
}

// Digester returns a digester for the configured algorithm.
func (c Config) Digester() (*state.Digester, error) {
	return state.NewDigester(state.Algorithm(strings.ToLower(c.HashAlgorithm)))
}

// Mode returns the configured propagation mode.
func (c Config) Mode() (solver.Mode, error) {
	return solver.ParseMode(c.Propagation)
}

// Encode writes c in the given format ("toml" or "yaml").
func (c Config) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "toml", "":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported config format %q", format)
}

// DefaultPath returns the first existing config file in the user config
// directory, or the TOML path if none exists.
func DefaultPath() string {
	dir := configDir()
	for _, name := range []string{"inarow.toml", "inarow.yaml", "inarow.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, "inarow.toml")
}

// DefaultStateDir is where the file store keeps states by default.
func DefaultStateDir() string {
	return filepath.Join(cacheDir(), "states")
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appName
	}
	return filepath.Join(home, ".config", appName)
}

func cacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}
