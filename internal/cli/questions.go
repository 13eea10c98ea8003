package cli

import (
	"fmt"

	"flash-me/internal/domain"
	"flash-me/internal/service"

	"github.com/spf13/cobra"
)

func newQuestionsCmd(load appLoader, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List or add questions of a user's tasks",
	}
	cmd.AddCommand(newQuestionsListCmd(load, configPath))
	cmd.AddCommand(newQuestionsAddCmd(load, configPath))
	return cmd
}

func newQuestionsListCmd(load appLoader, configPath *string) *cobra.Command {
	var (
		userID string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's questions, newest task first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd.Context(), *configPath, appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			questions, err := a.querier.FetchQuestionsByUserID(cmd.Context(), userID, limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), questions)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "owner of the questions")
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultLimit, "maximum number of questions (max 100)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newQuestionsAddCmd(load appLoader, configPath *string) *cobra.Command {
	var (
		userID   string
		taskID   string
		question string
		answers  []string
		correct  []int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a question to one of the user's completed tasks",
		Example: `  flashme questions add --user u1 --task 01J... \
    --question "What does ATP carry?" --answer Energy --answer Oxygen --correct 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := answerDrafts(answers, correct)
			if err != nil {
				return err
			}

			a, err := load(cmd.Context(), *configPath, appOptions{withCache: true})
			if err != nil {
				return err
			}
			defer a.close()

			out, err := a.adder.Execute(cmd.Context(), service.AddQuestionInput{
				UserID:  userID,
				TaskID:  taskID,
				Content: question,
				Answers: drafts,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), domain.TaskQuestion{
				TaskID:   out.QuizGenerationTask.ID(),
				Question: out.Question,
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "owner of the task")
	cmd.Flags().StringVarP(&taskID, "task", "t", "", "task the question is added to")
	cmd.Flags().StringVarP(&question, "question", "q", "", "question text")
	cmd.Flags().StringArrayVarP(&answers, "answer", "a", nil, "answer text, repeat for each answer in display order")
	cmd.Flags().IntSliceVarP(&correct, "correct", "c", nil, "1-based position of a correct answer, repeatable")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("correct")
	return cmd
}

// answerDrafts pairs answer texts with the 1-based correct positions.
func answerDrafts(answers []string, correct []int) ([]domain.AnswerDraft, error) {
	drafts := make([]domain.AnswerDraft, len(answers))
	for i, text := range answers {
		drafts[i].Text = text
	}
	for _, pos := range correct {
		if pos < 1 || pos > len(answers) {
			return nil, domain.NewInvalidInputError(
				fmt.Sprintf("correct must be between 1 and %d, got %d", len(answers), pos), nil)
		}
		drafts[pos-1].IsCorrect = true
	}
	return drafts, nil
}
