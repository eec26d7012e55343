package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yml")
	yaml := `
name: ingestd
environment: production
server:
  port: 9200
store:
  scroll_batch_size: 25
docstore:
  backend: redis
  redis:
    addr: redis:6379
`
	if err := os.WriteFile(configFile, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("SERVER_PORT", "9300")

	var cfg Config
	if err := Load("ingestd", &cfg, WithConfigFile(configFile)); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if cfg.Server.Port != 9300 {
		t.Errorf("env override lost: port = %d", cfg.Server.Port)
	}
	if cfg.Store.ScrollBatchSize != 25 {
		t.Errorf("expected scroll batch 25, got %d", cfg.Store.ScrollBatchSize)
	}
	if cfg.Docstore.Backend != BackendRedis || cfg.Docstore.Redis.Addr != "redis:6379" {
		t.Errorf("docstore section lost: %+v", cfg.Docstore)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected production environment, got %s", cfg.Environment)
	}
}

func TestConfig_DefaultsAndValidation(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Name != "ingestd" {
		t.Errorf("expected default name ingestd, got %s", cfg.Name)
	}
	if cfg.Docstore.Backend != BackendMemory {
		t.Errorf("expected memory backend default, got %s", cfg.Docstore.Backend)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Store.ScrollBatchSize != 100 {
		t.Errorf("expected default scroll batch 100, got %d", cfg.Store.ScrollBatchSize)
	}

	cfg.Docstore.Backend = "cassandra"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown backend must fail validation")
	}
}
