package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"railhook/internal/config"
	"railhook/internal/logging"
	"railhook/internal/tracker"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
}

var rootCmd = &cobra.Command{
	Use:   "railhook",
	Short: "Operational tooling for the test-run reporting layer",
	Long: "Railhook syncs browser test results into an external test tracker.\n" +
		"This CLI verifies connectivity, lints the case mapping table, closes\n" +
		"orphaned runs, and serves the mapping tools over MCP.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "Path to YAML config (environment overrides apply on top)")
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(mappingCmd)
	rootCmd.AddCommand(closeRunCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.Version = version
}

// loadConfig reads the config file named by --config plus environment
// overrides. The CLI does not inherit the library's fail-open posture:
// an operator running a command wants errors, not silence.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return cfg, err
	}
	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	return cfg, nil
}

// trackerClient builds a client from the loaded config, requiring the
// connection fields regardless of the enabled flag.
func trackerClient(cfg config.Config) (*tracker.Client, error) {
	if cfg.BaseURL == "" || cfg.Username == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("tracker connection requires base_url, username and api_key")
	}
	return tracker.New(cfg.BaseURL, cfg.Username, cfg.APIKey,
		tracker.WithLogger(logging.New("tracker")),
		tracker.WithTimeout(cfg.RequestTimeout))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
