package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Test configuration falls back to built-in defaults with no file and
	// no environment overrides.

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.DBPath != defaultDBPath {
		t.Errorf("db-path: got %s, want %s", cfg.DBPath, defaultDBPath)
	}
	if cfg.HTTPAddr != defaultHTTPAddr {
		t.Errorf("http-addr: got %s, want %s", cfg.HTTPAddr, defaultHTTPAddr)
	}
	if cfg.Debug {
		t.Errorf("debug should default to false")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	// Test LOGATTRS_* environment variables override defaults.

	t.Setenv("LOGATTRS_DB_PATH", "/tmp/env.db")
	t.Setenv("LOGATTRS_DEBUG", "true")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("db-path: got %s, want /tmp/env.db", cfg.DBPath)
	}
	if !cfg.Debug {
		t.Errorf("debug should be true from environment")
	}
}

func TestLoadConfigFile(t *testing.T) {
	// Test an explicit config file layers over defaults.

	path := filepath.Join(t.TempDir(), "config.yml")
	body := "db-path: /tmp/file.db\nlogfile: /var/log/app.log\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.DBPath != "/tmp/file.db" {
		t.Errorf("db-path: got %s, want /tmp/file.db", cfg.DBPath)
	}
	if cfg.Logfile != "/var/log/app.log" {
		t.Errorf("logfile: got %s, want /var/log/app.log", cfg.Logfile)
	}
	// untouched keys keep their defaults
	if cfg.HTTPAddr != defaultHTTPAddr {
		t.Errorf("http-addr: got %s, want %s", cfg.HTTPAddr, defaultHTTPAddr)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	// Test a named config file that does not exist is an error, unlike the
	// optional default search.

	if _, err := loadConfig("/no/such/config.yml"); err == nil {
		t.Errorf("expected error for missing explicit config file")
	}
}
