package store

import (
	"context"
	"fmt"
	"slices"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported backend names.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo}

// Config selects and configures a backend. It is embedded in the
// application configuration file under [store].
type Config struct {
	Backend    string `toml:"backend" yaml:"backend" json:"backend"`
	Dir        string `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	Addr       string `toml:"addr" yaml:"addr" json:"addr,omitempty"`
	Password   string `toml:"password" yaml:"password" json:"-"`
	DB         int    `toml:"db" yaml:"db" json:"db,omitempty"`
	URI        string `toml:"uri" yaml:"uri" json:"uri,omitempty"`
	Database   string `toml:"database" yaml:"database" json:"database,omitempty"`
	Collection string `toml:"collection" yaml:"collection" json:"collection,omitempty"`
	Namespace  string `toml:"namespace" yaml:"namespace" json:"namespace,omitempty"`
	Compress   bool   `toml:"compress" yaml:"compress" json:"compress"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Backend:    BackendMemory,
		Addr:       "localhost:6379",
		URI:        "mongodb://localhost:27017",
		Database:   "inarow",
		Collection: "states",
	}
}

// Validate checks the backend name and its required fields.
func (c Config) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	switch c.Backend {
	case BackendFile:
		if c.Dir == "" {
			return fmt.Errorf("store: file backend requires dir")
		}
	case BackendRedis:
		if c.Addr == "" {
			return fmt.Errorf("store: redis backend requires addr")
		}
	case BackendMongo:
		if c.URI == "" || c.Database == "" || c.Collection == "" {
			return fmt.Errorf("store: mongo backend requires uri, database and collection")
		}
	}
	return nil
}

// Open builds the configured backend, wrapped in [Scoped] when a namespace
// is set.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisOptions{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoOptions{URI: cfg.URI, Database: cfg.Database, Collection: cfg.Collection})
	}
	if err != nil {
		return nil, err
	}
	return NewScoped(s, cfg.Namespace), nil
}
