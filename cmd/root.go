package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mindcare-ai/mindcare/internal/config"
	"github.com/mindcare-ai/mindcare/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mindcare",
	Short: "Mental health self-assessment and support in the terminal",
	Long: "MindCare: a terminal companion for a mental health risk questionnaire,\n" +
		"emotion check-ins, video journal analysis and a supportive chat assistant.\n\n" +
		"The chat assistant needs an LLM API key: set GEMINI_API_KEY, OPENAI_API_KEY,\n" +
		"ANTHROPIC_API_KEY or OPENROUTER_API_KEY, or configure the llm section of the\n" +
		"config file.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MINDCARE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/mindcare/config.yaml)")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigPath returns --config or the default XDG path.
func resolveConfigPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file / MINDCARE_DB value, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Database != "" {
		return cfg.Database, store.EnsureDir(cfg.Database)
	}
	return store.DefaultDBPath()
}
