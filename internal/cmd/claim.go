package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/coordination"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/errors"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/ledger"
)

var claimCmd = &cobra.Command{
	Use:   "claim <work-type>",
	Short: "Claim a new work item",
	Long: `Claim a new work item of the given type against the shared ledger.

High and critical priority claims are exclusive: the claim is rejected
with a conflict if another agent already holds an active item of the
same work type. Low and medium claims are unrestricted.`,
	Args: cobra.ExactArgs(1),
	RunE: runClaim,
}

var (
	claimDescription string
	claimPriority    string
	claimAgent       string
	claimTeam        string
	claimTraceID     string
)

func init() {
	claimCmd.Flags().StringVarP(&claimDescription, "description", "d", "", "description of the work")
	claimCmd.Flags().StringVarP(&claimPriority, "priority", "p", "medium", "priority: low, medium, high, critical")
	claimCmd.Flags().StringVar(&claimAgent, "agent", "", "claiming agent ID")
	claimCmd.Flags().StringVar(&claimTeam, "team", "", "claiming agent's team")
	claimCmd.Flags().StringVar(&claimTraceID, "trace-id", "", "external trace ID to join an existing distributed trace")
	rootCmd.AddCommand(claimCmd)
}

func runClaim(cmd *cobra.Command, args []string) error {
	hub, _, err := openHub()
	if err != nil {
		return err
	}
	defer func() { _ = hub.Stop() }()

	item, err := hub.Coordinator().Claim(cmd.Context(), coordination.ClaimRequest{
		WorkType:    args[0],
		Description: claimDescription,
		Priority:    ledger.Priority(claimPriority),
		AgentID:     claimAgent,
		Team:        claimTeam,
		TraceID:     claimTraceID,
	})
	if err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return fmt.Errorf("work type %q has an active exclusive claim; pick different work or retry later", args[0])
		}
		return err
	}

	fmt.Printf("Claimed %s\n", item.WorkItemID)
	fmt.Printf("  Work type: %s (%s)\n", item.WorkType, item.Priority)
	fmt.Printf("  Trace ID:  %s\n", item.TraceID)
	return nil
}
