// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.URL != "http://127.0.0.1:8000" {
		t.Errorf("Backend URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.RequestTimeoutSecs != 120 {
		t.Errorf("RequestTimeoutSecs = %d", cfg.Backend.RequestTimeoutSecs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1.0.0"

[backend]
url = "http://backend.internal:9000"
request_timeout_secs = 30
advanced_visuals = true

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Backend.URL != "http://backend.internal:9000" {
		t.Errorf("Backend URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.RequestTimeoutSecs != 30 {
		t.Errorf("RequestTimeoutSecs = %d", cfg.Backend.RequestTimeoutSecs)
	}
	if !cfg.Backend.AdvancedVisuals {
		t.Error("AdvancedVisuals should be true")
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestLoadFromPath_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[ui]
theme = "auto"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Backend.URL != "http://127.0.0.1:8000" {
		t.Errorf("Backend URL should default, got %q", cfg.Backend.URL)
	}
	if cfg.Backend.RequestTimeoutSecs != 120 {
		t.Errorf("RequestTimeoutSecs should default, got %d", cfg.Backend.RequestTimeoutSecs)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("FINCHAT_BACKEND_URL", "http://other:8001")
	t.Setenv("FINCHAT_TIMEOUT_SECS", "45")
	t.Setenv("FINCHAT_ADVANCED_VISUALS", "true")
	t.Setenv("FINCHAT_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.URL != "http://other:8001" {
		t.Errorf("Backend URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.RequestTimeoutSecs != 45 {
		t.Errorf("RequestTimeoutSecs = %d", cfg.Backend.RequestTimeoutSecs)
	}
	if !cfg.Backend.AdvancedVisuals {
		t.Error("AdvancedVisuals should be true")
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestApplyEnvOverrides_BadValuesIgnored(t *testing.T) {
	t.Setenv("FINCHAT_TIMEOUT_SECS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.RequestTimeoutSecs != 120 {
		t.Errorf("Unparseable override should be ignored, got %d", cfg.Backend.RequestTimeoutSecs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"missing scheme", func(c *Config) { c.Backend.URL = "127.0.0.1:8000" }, true},
		{"bad scheme", func(c *Config) { c.Backend.URL = "ftp://127.0.0.1:8000" }, true},
		{"timeout too low", func(c *Config) { c.Backend.RequestTimeoutSecs = 0 }, true},
		{"timeout too high", func(c *Config) { c.Backend.RequestTimeoutSecs = 601 }, true},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
		{"https backend", func(c *Config) { c.Backend.URL = "https://backend.example.com" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var errs ValidateErrors
				if !errors.As(err, &errs) || len(errs) == 0 {
					t.Errorf("Expected ValidateErrors, got %T", err)
				}
			}
		})
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Backend.URL = "http://backend.internal:9000"
	cfg.UI.Theme = "light"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Backend.URL != cfg.Backend.URL || loaded.UI.Theme != cfg.UI.Theme {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := SaveTOML(Default(), path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	updated := Default()
	updated.UI.Theme = "light"
	if err := SaveTOML(updated, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.UI.Theme != "light" {
			t.Errorf("Reloaded theme = %q, want light", cfg.UI.Theme)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}
}
