package cli

import (
	"github.com/spf13/cobra"
)

func newTasksCmd(load appLoader, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect stored quiz generation tasks",
	}
	cmd.AddCommand(newTasksListCmd(load, configPath))
	cmd.AddCommand(newTasksGetCmd(load, configPath))
	return cmd
}

func newTasksListCmd(load appLoader, configPath *string) *cobra.Command {
	var (
		userID string
		page   int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd.Context(), *configPath, appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.querier.FetchTasksByUserID(cmd.Context(), userID, page, limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "owner of the tasks")
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&limit, "limit", 10, "tasks per page (max 100)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newTasksGetCmd(load appLoader, configPath *string) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "get <task-id>",
		Short: "Show one task with its questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd.Context(), *configPath, appOptions{withCache: true})
			if err != nil {
				return err
			}
			defer a.close()

			task, err := a.querier.GetTaskByID(cmd.Context(), args[0], userID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), task)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "only show the task if it belongs to this user")
	return cmd
}
