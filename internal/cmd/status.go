package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/ledger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ledger and agent status",
	Long: `Display work item counts, every work item matching the optional
work-type filter, and the set of active agents. Reads are against a
complete ledger snapshot; no locks are taken.`,
	RunE: runStatus,
}

var statusTypeGlob string

func init() {
	statusCmd.Flags().StringVarP(&statusTypeGlob, "type", "t", "", "glob filter on work_type (e.g. 'deploy*')")
	rootCmd.AddCommand(statusCmd)
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func runStatus(cmd *cobra.Command, args []string) error {
	hub, _, err := openHub()
	if err != nil {
		return err
	}
	defer func() { _ = hub.Stop() }()

	var matcher glob.Glob
	if statusTypeGlob != "" {
		matcher, err = glob.Compile(statusTypeGlob)
		if err != nil {
			return fmt.Errorf("invalid work-type glob %q: %w", statusTypeGlob, err)
		}
	}

	items, err := hub.Coordinator().List()
	if err != nil {
		return err
	}
	counts, err := hub.Coordinator().Status()
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Ledger"))
	fmt.Printf("  total=%d pending=%d claimed=%d in_progress=%d completed=%d failed=%d\n\n",
		counts.Total, counts.Pending, counts.Claimed, counts.InProgress, counts.Completed, counts.Failed)

	shown := 0
	for _, item := range items {
		if matcher != nil && !matcher.Match(item.WorkType) {
			continue
		}
		shown++
		fmt.Printf("%s  %s [%s] %s\n",
			statusStyle(item.Status).Render(fmt.Sprintf("%-11s", item.Status)),
			item.WorkItemID, item.Priority, item.WorkType)
		if item.ClaimedBy != "" {
			fmt.Printf("             claimed_by=%s", item.ClaimedBy)
			if item.ClaimedAt != nil {
				fmt.Printf(" at %s", item.ClaimedAt.Format(time.RFC3339))
			}
			fmt.Println()
		}
	}
	if matcher != nil {
		fmt.Printf("\n%d item(s) matching %q\n", shown, statusTypeGlob)
	}

	agents := hub.ActiveAgents()
	fmt.Printf("\n%s\n", headerStyle.Render("Active agents"))
	if len(agents) == 0 {
		fmt.Println("  none")
		return nil
	}
	for _, a := range agents {
		fmt.Printf("  %s  team=%s status=%s\n", a.ID, a.Team, a.Status)
	}
	return nil
}

// statusStyle picks the display style for a work item status.
func statusStyle(s ledger.Status) lipgloss.Style {
	switch s {
	case ledger.StatusCompleted:
		return completedStyle
	case ledger.StatusFailed:
		return failedStyle
	case ledger.StatusClaimed, ledger.StatusInProgress:
		return activeStyle
	default:
		return pendingStyle
	}
}
