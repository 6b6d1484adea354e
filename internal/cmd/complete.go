package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete <work-item-id>",
	Short: "Mark a work item completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var (
	completeResult string
	completeScore  int
)

func init() {
	completeCmd.Flags().StringVarP(&completeResult, "result", "r", "done", "result to record")
	completeCmd.Flags().IntVar(&completeScore, "score", 0, "self-reported quality score")
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	hub, _, err := openHub()
	if err != nil {
		return err
	}
	defer func() { _ = hub.Stop() }()

	if err := hub.Coordinator().Complete(cmd.Context(), args[0], completeResult, completeScore); err != nil {
		return err
	}
	fmt.Printf("Completed %s\n", args[0])
	return nil
}
