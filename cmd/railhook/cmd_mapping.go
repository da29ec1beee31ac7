package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"railhook/internal/mapping"
)

var mappingFlags struct {
	path string
}

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Lint and print the case mapping table",
	Long: `Loads the mapping table with the same validation the reporting layer
applies at session start: positive case IDs, non-empty identity lists,
no identity claimed by two cases. Prints the table on success.`,
	RunE: runMapping,
}

func init() {
	mappingCmd.Flags().StringVar(&mappingFlags.path, "file", "", "Mapping file to lint (default: configured mapping_path)")
}

func runMapping(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := mappingFlags.path
	if path == "" {
		path = cfg.MappingPath
	}

	table, err := mapping.LoadFromPath(path)
	if err != nil {
		return fmt.Errorf("mapping table: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d identities across %d cases\n\n", path, table.Len(), len(table.CaseIDs()))
	for _, id := range table.CaseIDs() {
		fmt.Fprintf(out, "C%d\n", id)
		for _, identity := range table.Identities(id) {
			fmt.Fprintf(out, "  %s\n", identity)
		}
	}
	return nil
}
