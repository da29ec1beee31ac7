package main

import (
	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"railhook/internal/logging"
	"railhook/internal/mapping"
	mcpserver "railhook/internal/mcp"
	"railhook/internal/tracker"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the mapping and run tools over MCP on stdio",
	Long: `Starts an MCP server over stdin/stdout exposing resolve_case,
list_cases and run_status. Without tracker credentials the mapping tools
still work; run_status reports that the tracker is not configured.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	table := mapping.Empty()
	if loaded, err := mapping.LoadFromPath(cfg.MappingPath); err == nil {
		table = loaded
	} else {
		logging.New("mcp").Warn("mapping table unavailable, serving empty table",
			"path", cfg.MappingPath, "error", err)
	}

	var client *tracker.Client
	if c, err := trackerClient(cfg); err == nil {
		client = c
	}

	srv := mcpserver.NewServer(table, client)
	logging.New("mcp").Info("starting railhook MCP server over stdio")
	return srv.Run(cmd.Context(), &sdkmcp.StdioTransport{})
}
