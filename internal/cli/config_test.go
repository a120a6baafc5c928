package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Backend != BackendFile {
		t.Errorf("Backend = %q, want file", cfg.Backend)
	}
	if cfg.Redis.Addr == "" || cfg.Mongo.URI == "" {
		t.Error("connection defaults not set")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
backend = "redis"
data_dir = "/tmp/linealens-test"

[redis]
addr = "redis.internal:6380"
db = 2

[mongo]
uri = "mongodb://db.internal:27017"
database = "lineage"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Backend != BackendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Backend)
	}
	if cfg.Redis.Addr != "redis.internal:6380" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Mongo.Database != "lineage" {
		t.Errorf("Mongo.Database = %q", cfg.Mongo.Database)
	}
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`backend = "memory"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != BackendMemory {
		t.Errorf("Backend = %q, want memory", cfg.Backend)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want default", cfg.Redis.Addr)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadConfig(missing) should fail")
	}
}

func TestNewStore_MemoryBackend(t *testing.T) {
	c := &CLI{Logger: log.New(io.Discard), Config: Config{Backend: BackendMemory}}
	st, err := c.newStore(context.Background())
	if err != nil {
		t.Fatalf("newStore() error: %v", err)
	}
	defer st.Close()
}

func TestNewStore_FileBackendUsesDataDir(t *testing.T) {
	dir := t.TempDir()
	c := &CLI{Logger: log.New(io.Discard), Config: Config{Backend: BackendFile, DataDir: dir}}
	st, err := c.newStore(context.Background())
	if err != nil {
		t.Fatalf("newStore() error: %v", err)
	}
	defer st.Close()

	if _, err := os.Stat(filepath.Join(dir, "projects")); err != nil {
		t.Errorf("projects dir not created under data_dir: %v", err)
	}
}

func TestNewStore_UnknownBackend(t *testing.T) {
	c := &CLI{Logger: log.New(io.Discard), Config: Config{Backend: "carrier-pigeon"}}
	if _, err := c.newStore(context.Background()); err == nil {
		t.Error("unknown backend should fail")
	}
}
