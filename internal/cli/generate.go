package cli

import (
	"fmt"
	"io"
	"os"

	"flash-me/internal/service"

	"github.com/spf13/cobra"
)

func newGenerateCmd(load appLoader, configPath *string) *cobra.Command {
	var (
		file   string
		userID string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a quiz from text read from --file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			a, err := load(cmd.Context(), *configPath, appOptions{withGenerator: true})
			if err != nil {
				return err
			}
			defer a.close()

			out, err := a.creator.Execute(cmd.Context(), service.CreateQuizGenerationTaskInput{
				Text:   text,
				UserID: userID,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out.QuizGenerationTask)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file to read the text from (default stdin)")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "owner of the generated task")
	return cmd
}

func readInput(stdin io.Reader, file string) (string, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}
