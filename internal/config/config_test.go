package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LUMEN_DB_PATH", "LUMEN_PAGE_SIZE", "LUMEN_LOG_LEVEL", "LUMEN_LOG_FILE", "LUMEN_USER_ID"} {
		t.Setenv(key, "")
	}
}

func TestLoadFromFile_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.FetchTimeout() != 10*time.Second {
		t.Fatalf("unexpected fetch timeout: %s", cfg.FetchTimeout())
	}
}

func TestLoadFromFile_ReadsYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "db_path: /tmp/board.db\npage_size: 30\nlog_level: debug\nuser_id: from-file\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LUMEN_USER_ID", "from-env")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile returned error: %v", err)
	}
	if cfg.DBPath != "/tmp/board.db" || cfg.PageSize != 30 || cfg.LogLevel != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.UserID != "from-env" {
		t.Fatalf("expected env override, got %q", cfg.UserID)
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("page_size: [oops"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnvOverrides_BadPageSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("LUMEN_PAGE_SIZE", "lots")

	cfg := Default()
	if err := cfg.ApplyEnvOverrides(); err == nil {
		t.Fatal("expected error for non-numeric page size")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty db path", mutate: func(c *Config) { c.DBPath = "" }},
		{name: "zero page size", mutate: func(c *Config) { c.PageSize = 0 }},
		{name: "huge page size", mutate: func(c *Config) { c.PageSize = 1000 }},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "loud" }},
		{name: "zero timeout", mutate: func(c *Config) { c.FetchTimeoutSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
