package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return newRootCmd(loadApp).ExecuteContext(ctx)
}

func newRootCmd(load appLoader) *cobra.Command {
	configPath := os.Getenv("CONFIG_PATH")

	cmd := &cobra.Command{
		Use:           "flashme",
		Short:         "Generate multiple-choice quizzes from text with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", configPath, "directory containing config.yaml")
	cmd.AddCommand(newGenerateCmd(load, &configPath))
	cmd.AddCommand(newTasksCmd(load, &configPath))
	cmd.AddCommand(newQuestionsCmd(load, &configPath))
	cmd.AddCommand(newAnswersCmd(load, &configPath))
	cmd.AddCommand(newMigrateCmd(load, &configPath))
	return cmd
}
