package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(load appLoader, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the configured driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd.Context(), *configPath, appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
