package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "swarm",
	Short: "Agent coordination over a shared work ledger",
	Long: `Swarm coordinates independent agent processes claiming, progressing,
and completing work items against a shared, file-persisted ledger,
with no central lock server. Commits use optimistic concurrency:
stale writes are retried with backoff, conflicts surface immediately.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/swarm/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "shared coordination data directory")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("coordination.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SWARM")
	// Replace dots with underscores for nested keys in env vars,
	// e.g. SWARM_COORDINATION_DATA_DIR for coordination.data_dir
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
