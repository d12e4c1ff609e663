package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api:
  base_url: http://catalog.internal:9000
dashboard:
  page_size: 50
import:
  poll_interval: 250ms
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "http://catalog.internal:9000" {
		t.Errorf("BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.Dashboard.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.Dashboard.PageSize)
	}
	if cfg.Import.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.Import.PollInterval)
	}
	// untouched keys fall back to defaults
	if cfg.Import.HideDelay != time.Second {
		t.Errorf("HideDelay = %v, want 1s", cfg.Import.HideDelay)
	}
	if cfg.Dashboard.ToastTTL != 2500*time.Millisecond {
		t.Errorf("ToastTTL = %v, want 2.5s", cfg.Dashboard.ToastTTL)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %s, want default", cfg.API.BaseURL)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://from-env:8000")
	t.Setenv("DASHBOARD_PAGE_SIZE", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://from-env:8000" {
		t.Errorf("BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.Dashboard.PageSize != 5 {
		t.Errorf("PageSize = %d, want 5", cfg.Dashboard.PageSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty base url", func(c *Config) { c.API.BaseURL = " " }, true},
		{"zero page size", func(c *Config) { c.Dashboard.PageSize = 0 }, true},
		{"zero poll interval", func(c *Config) { c.Import.PollInterval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
