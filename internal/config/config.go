// Package config holds the read-once bootstrap parameters for the
// reporting layer: tracker endpoint and credentials, project and suite
// identifiers, the mapping table location, and the single Enabled flag
// that gates the whole subsystem.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config is read once at process start and immutable afterwards.
type Config struct {
	// Enabled gates the entire reporting subsystem. When false every
	// component is a no-op and the suite's results are unaffected.
	Enabled bool `yaml:"enabled"`

	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	// APIKey is the tracker API key, not an account password.
	APIKey    string `yaml:"api_key"`
	ProjectID int    `yaml:"project_id"`
	SuiteID   int    `yaml:"suite_id"`

	RunName        string `yaml:"run_name"`
	RunDescription string `yaml:"run_description"`

	MappingPath   string `yaml:"mapping_path"`
	ScreenshotDir string `yaml:"screenshot_dir"`

	// RequestTimeout bounds each tracker API call.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// CaptureTimeout bounds one whole evidence capture.
	CaptureTimeout time.Duration `yaml:"capture_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when nothing is set: reporting
// disabled, conventional file locations, conservative timeouts.
func Default() Config {
	return Config{
		RunName:        "Automated UI run",
		RunDescription: "Automated browser test execution",
		MappingPath:    "testdata/case_mapping.yaml",
		ScreenshotDir:  "screenshots",
		RequestTimeout: 30 * time.Second,
		CaptureTimeout: 10 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads a YAML config file when path is non-empty, then applies
// environment overrides on top. A missing file with an empty path is fine;
// an explicit path that cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config yaml: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// FromEnv returns the default config with environment overrides applied.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("RAILHOOK_ENABLED"); ok {
		c.Enabled = parseBool(v)
	}
	setString(&c.BaseURL, "RAILHOOK_BASE_URL")
	setString(&c.Username, "RAILHOOK_USERNAME")
	setString(&c.APIKey, "RAILHOOK_API_KEY")
	setInt(&c.ProjectID, "RAILHOOK_PROJECT_ID")
	setInt(&c.SuiteID, "RAILHOOK_SUITE_ID")
	setString(&c.RunName, "RAILHOOK_RUN_NAME")
	setString(&c.RunDescription, "RAILHOOK_RUN_DESCRIPTION")
	setString(&c.MappingPath, "RAILHOOK_MAPPING_PATH")
	setString(&c.ScreenshotDir, "RAILHOOK_SCREENSHOT_DIR")
	setString(&c.LogLevel, "RAILHOOK_LOG_LEVEL")
	setString(&c.LogFormat, "RAILHOOK_LOG_FORMAT")
}

// Validate checks the fields required for an enabled configuration.
// A disabled config is always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.BaseURL == "" {
		return fmt.Errorf("config: base_url is required when reporting is enabled")
	}
	if c.Username == "" || c.APIKey == "" {
		return fmt.Errorf("config: username and api_key are required when reporting is enabled")
	}
	if c.ProjectID <= 0 {
		return fmt.Errorf("config: project_id must be positive, got %d", c.ProjectID)
	}
	if c.SuiteID <= 0 {
		return fmt.Errorf("config: suite_id must be positive, got %d", c.SuiteID)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
