package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"railhook/internal/mapping"
	"railhook/internal/tracker"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check tracker connectivity, credentials and the mapping table",
	Long: `Resolves the configured project against the tracker API and loads the
case mapping table, reporting exactly what an enabled test session would
find. Exit status is non-zero when any check fails.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	client, err := trackerClient(cfg)
	if err != nil {
		return err
	}
	project, err := client.GetProject(cmd.Context(), cfg.ProjectID)
	switch {
	case tracker.IsUnauthorized(err):
		return fmt.Errorf("tracker rejected the credentials for %s: %w", cfg.Username, err)
	case tracker.IsNotFound(err):
		return fmt.Errorf("project %d does not exist on %s: %w", cfg.ProjectID, cfg.BaseURL, err)
	case err != nil:
		return fmt.Errorf("tracker unreachable: %w", err)
	}
	fmt.Fprintf(out, "Tracker:  %s\n", cfg.BaseURL)
	fmt.Fprintf(out, "Project:  %s (#%d)\n", project.Name, project.ID)

	table, err := mapping.LoadFromPath(cfg.MappingPath)
	if err != nil {
		return fmt.Errorf("mapping table: %w", err)
	}
	fmt.Fprintf(out, "Mapping:  %s (%d identities across %d cases)\n",
		cfg.MappingPath, table.Len(), len(table.CaseIDs()))

	if !cfg.Enabled {
		fmt.Fprintf(out, "\nNote: reporting is currently disabled; set enabled: true to activate.\n")
	}
	return nil
}
