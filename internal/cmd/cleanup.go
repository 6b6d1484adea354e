package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Release stale claims and prune silent agents",
	Long: `Return work items that have sat in the claimed status past the stale
window without a progress report to pending, and drop agents whose
last heartbeat is older than the prune retention. Both operations are
safe to run while other agents are working.`,
	RunE: runCleanup,
}

var cleanupStaleAfter time.Duration

func init() {
	cleanupCmd.Flags().DurationVar(&cleanupStaleAfter, "stale-after", 10*time.Minute, "release claims older than this without progress")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	hub, cfg, err := openHub()
	if err != nil {
		return err
	}
	defer func() { _ = hub.Stop() }()

	now := time.Now().UTC()

	released, err := hub.Coordinator().ReleaseStale(cmd.Context(), now.Add(-cleanupStaleAfter))
	if err != nil {
		return err
	}
	for _, id := range released {
		fmt.Printf("Released stale claim %s\n", id)
	}

	pruned, err := hub.Registry().Prune(now, cfg.Registry.PruneAfter())
	if err != nil {
		return err
	}
	for _, id := range pruned {
		fmt.Printf("Pruned agent %s\n", id)
	}

	if len(released) == 0 && len(pruned) == 0 {
		fmt.Println("Nothing to clean up")
	}
	return nil
}
