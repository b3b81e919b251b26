package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sensei",
	Short: "Japanese tutor for kids",
	Long: `Sensei is a friendly Japanese tutor for young learners.

Chat with Sensei in six practice modes, review the words you meet with
spaced repetition, and play the kana matching game. Chat needs an LLM
provider: set SENSEI_LLM_PROVIDER and the matching API key
(SENSEI_OPENAI_API_KEY, SENSEI_ANTHROPIC_API_KEY, SENSEI_GEMINI_API_KEY
or SENSEI_OPENROUTER_API_KEY). Without one, review and kana still work.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Database path or DSN (overrides SENSEI_DB)")
	rootCmd.PersistentFlags().String("user", "", "Learner id (defaults to this machine's local learner)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
