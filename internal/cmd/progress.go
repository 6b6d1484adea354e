package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress <work-item-id> <percent>",
	Short: "Report progress on a claimed work item",
	Args:  cobra.ExactArgs(2),
	RunE:  runProgress,
}

var progressNote string

func init() {
	progressCmd.Flags().StringVarP(&progressNote, "note", "n", "", "audit note to attach to the update")
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	var percent int
	if _, err := fmt.Sscanf(args[1], "%d", &percent); err != nil {
		return fmt.Errorf("percent must be an integer: %w", err)
	}

	hub, _, err := openHub()
	if err != nil {
		return err
	}
	defer func() { _ = hub.Stop() }()

	if err := hub.Coordinator().Progress(cmd.Context(), args[0], percent, progressNote); err != nil {
		return err
	}
	fmt.Printf("Progress recorded: %s at %d%%\n", args[0], percent)
	return nil
}
