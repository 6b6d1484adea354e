package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/registry"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage agent registration and liveness",
}

var agentRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new agent and print its ID",
	RunE:  runAgentRegister,
}

var agentHeartbeatCmd = &cobra.Command{
	Use:   "heartbeat <agent-id>",
	Short: "Refresh an agent's liveness timestamp",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentHeartbeat,
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents heard from within the heartbeat timeout",
	RunE:  runAgentList,
}

var (
	agentTeam     string
	agentCapacity int
	agentStatus   string
)

func init() {
	agentRegisterCmd.Flags().StringVar(&agentTeam, "team", "default", "team the agent works for")
	agentRegisterCmd.Flags().IntVar(&agentCapacity, "capacity", 1, "concurrent work item capacity")
	agentHeartbeatCmd.Flags().StringVar(&agentStatus, "status", "", "reported status: active, idle, error")

	agentCmd.AddCommand(agentRegisterCmd)
	agentCmd.AddCommand(agentHeartbeatCmd)
	agentCmd.AddCommand(agentListCmd)
	rootCmd.AddCommand(agentCmd)
}

func runAgentRegister(cmd *cobra.Command, args []string) error {
	hub, _, err := openHub()
	if err != nil {
		return err
	}
	defer func() { _ = hub.Stop() }()

	agent, err := hub.Registry().Register(agentTeam, agentCapacity)
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s (team %s, capacity %d)\n", agent.ID, agent.Team, agent.Capacity)
	return nil
}

func runAgentHeartbeat(cmd *cobra.Command, args []string) error {
	hub, _, err := openHub()
	if err != nil {
		return err
	}
	defer func() { _ = hub.Stop() }()

	if err := hub.Registry().Heartbeat(args[0], registry.AgentStatus(agentStatus)); err != nil {
		return err
	}
	fmt.Printf("Heartbeat recorded for %s\n", args[0])
	return nil
}

func runAgentList(cmd *cobra.Command, args []string) error {
	hub, _, err := openHub()
	if err != nil {
		return err
	}
	defer func() { _ = hub.Stop() }()

	agents := hub.ActiveAgents()
	if len(agents) == 0 {
		fmt.Println("No active agents")
		return nil
	}

	for _, a := range agents {
		fmt.Printf("%s  team=%s capacity=%d status=%s last_heartbeat=%s\n",
			a.ID, a.Team, a.Capacity, a.Status,
			a.LastHeartbeat.Format(time.RFC3339))
	}
	return nil
}
