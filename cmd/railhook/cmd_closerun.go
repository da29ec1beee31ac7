package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var closeRunFlags struct {
	runID int
}

var closeRunCmd = &cobra.Command{
	Use:   "close-run",
	Short: "Close a run left open by an interrupted session",
	Long: `Closes the given run in the tracker. A session killed before its
shutdown hook leaves its run open; this command finishes the job.
Closing an already-completed run is a no-op.`,
	RunE: runCloseRun,
}

func init() {
	closeRunCmd.Flags().IntVar(&closeRunFlags.runID, "run-id", 0, "Run ID to close (required)")
	_ = closeRunCmd.MarkFlagRequired("run-id")
}

func runCloseRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := trackerClient(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	run, err := client.GetRun(cmd.Context(), closeRunFlags.runID)
	if err != nil {
		return fmt.Errorf("get run %d: %w", closeRunFlags.runID, err)
	}
	if run.IsCompleted {
		fmt.Fprintf(out, "Run %d (%q) is already completed.\n", run.ID, run.Name)
		return nil
	}

	closed, err := client.CloseRun(cmd.Context(), run.ID)
	if err != nil {
		return fmt.Errorf("close run %d: %w", run.ID, err)
	}
	fmt.Fprintf(out, "Closed run %d (%q).\n", closed.ID, closed.Name)
	return nil
}
