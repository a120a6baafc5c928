package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/linealens/linealens/pkg/store"
)

// Backend names accepted in the config file and the --backend flag.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/linealens/config.toml (or $XDG_CONFIG_HOME/linealens/config.toml).
type Config struct {
	// Backend selects the project store: file, memory, redis or mongo.
	Backend string `toml:"backend"`

	// DataDir overrides the file backend's storage directory.
	DataDir string `toml:"data_dir"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Backend: BackendFile,
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Mongo:   MongoConfig{URI: "mongodb://localhost:27017"},
	}
}

// configPath returns the config file location using the XDG standard.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file at path, layering it over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	return cfg, nil
}

// LoadConfigOrDefault reads the standard config file, silently falling back
// to defaults when the file does not exist or cannot be read.
func LoadConfigOrDefault() Config {
	path, err := configPath()
	if err != nil {
		return DefaultConfig()
	}
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// newStore opens the project store selected by the configuration.
func (c *CLI) newStore(ctx context.Context) (*store.Store, error) {
	backend, err := c.newBackend(ctx)
	if err != nil {
		return nil, err
	}
	return store.New(backend, c.Logger), nil
}

func (c *CLI) newBackend(ctx context.Context) (store.Backend, error) {
	switch c.Config.Backend {
	case BackendMemory:
		return store.NewMemoryBackend(), nil
	case BackendRedis:
		return store.NewRedisBackend(ctx, store.RedisConfig{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
	case BackendMongo:
		return store.NewMongoBackend(ctx, store.MongoConfig{
			URI:      c.Config.Mongo.URI,
			Database: c.Config.Mongo.Database,
		})
	case BackendFile, "":
		return store.NewFileBackend(c.Config.DataDir)
	default:
		return nil, fmt.Errorf("unknown backend %q (expected file, memory, redis or mongo)", c.Config.Backend)
	}
}
