package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var failCmd = &cobra.Command{
	Use:   "fail <work-item-id>",
	Short: "Mark a work item failed",
	Long: `Mark a work item failed. Failed is terminal: the item cannot be
progressed or completed afterward. This is the only way to abandon a
claim; another agent's in-flight operation is never interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runFail,
}

var failReason string

func init() {
	failCmd.Flags().StringVarP(&failReason, "reason", "r", "", "failure reason to record")
	rootCmd.AddCommand(failCmd)
}

func runFail(cmd *cobra.Command, args []string) error {
	hub, _, err := openHub()
	if err != nil {
		return err
	}
	defer func() { _ = hub.Stop() }()

	if err := hub.Coordinator().Fail(cmd.Context(), args[0], failReason); err != nil {
		return err
	}
	fmt.Printf("Failed %s\n", args[0])
	return nil
}
