package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_DisabledAndValid(t *testing.T) {
	cfg := Default()
	if cfg.Enabled {
		t.Error("reporting must default to disabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled default config must validate: %v", err)
	}
	if cfg.RequestTimeout != 30*time.Second || cfg.CaptureTimeout != 10*time.Second {
		t.Errorf("unexpected default timeouts: %+v", cfg)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "railhook.yaml")
	content := `
enabled: true
base_url: https://example.testrail.io
username: qa@example.com
api_key: from-file
project_id: 7
suite_id: 139
run_name: Nightly UI run
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RAILHOOK_API_KEY", "from-env")
	t.Setenv("RAILHOOK_SUITE_ID", "200")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Enabled || cfg.BaseURL != "https://example.testrail.io" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("env must override file, got api_key=%q", cfg.APIKey)
	}
	if cfg.SuiteID != 200 {
		t.Errorf("env must override file, got suite_id=%d", cfg.SuiteID)
	}
	if cfg.RunName != "Nightly UI run" {
		t.Errorf("run_name = %q", cfg.RunName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load("/nonexistent/railhook.yaml"); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RAILHOOK_ENABLED", "true")
	t.Setenv("RAILHOOK_BASE_URL", "https://example.testrail.io")
	t.Setenv("RAILHOOK_USERNAME", "qa@example.com")
	t.Setenv("RAILHOOK_API_KEY", "key")
	t.Setenv("RAILHOOK_PROJECT_ID", "1")
	t.Setenv("RAILHOOK_SUITE_ID", "2")

	cfg := FromEnv()
	if !cfg.Enabled {
		t.Error("RAILHOOK_ENABLED=true not applied")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFromEnv_BadBoolDisables(t *testing.T) {
	t.Setenv("RAILHOOK_ENABLED", "yes-please")
	cfg := FromEnv()
	if cfg.Enabled {
		t.Error("unparseable RAILHOOK_ENABLED must leave reporting disabled")
	}
}

func TestValidate_EnabledRequirements(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.BaseURL = "" }},
		{"missing username", func(c *Config) { c.Username = "" }},
		{"missing api key", func(c *Config) { c.APIKey = "" }},
		{"zero project", func(c *Config) { c.ProjectID = 0 }},
		{"zero suite", func(c *Config) { c.SuiteID = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Enabled = true
			cfg.BaseURL = "https://example.testrail.io"
			cfg.Username = "qa@example.com"
			cfg.APIKey = "key"
			cfg.ProjectID = 1
			cfg.SuiteID = 2
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
