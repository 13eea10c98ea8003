package cli

import (
	"time"

	"flash-me/internal/service"

	"github.com/spf13/cobra"
)

type submitAnswerResult struct {
	ID               string    `json:"id"`
	QuestionID       string    `json:"questionId"`
	AnswerID         string    `json:"answerId"`
	IsCorrect        bool      `json:"isCorrect"`
	CorrectAnswerIDs []string  `json:"correctAnswerIds"`
	AnsweredAt       time.Time `json:"answeredAt"`
}

func newAnswersCmd(load appLoader, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answers",
		Short: "Answer questions of a user's tasks",
	}
	cmd.AddCommand(newAnswersSubmitCmd(load, configPath))
	return cmd
}

func newAnswersSubmitCmd(load appLoader, configPath *string) *cobra.Command {
	var userID, questionID, answerID string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record the answer a user picked and report whether it is correct",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd.Context(), *configPath, appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			out, err := a.submitter.Execute(cmd.Context(), service.SubmitAnswerInput{
				UserID:     userID,
				QuestionID: questionID,
				AnswerID:   answerID,
			})
			if err != nil {
				return err
			}
			ua := out.UserAnswer
			return writeJSON(cmd.OutOrStdout(), submitAnswerResult{
				ID:               ua.ID(),
				QuestionID:       ua.QuestionID(),
				AnswerID:         ua.AnswerID(),
				IsCorrect:        out.IsCorrect,
				CorrectAnswerIDs: out.CorrectAnswerIDs,
				AnsweredAt:       ua.AnsweredAt(),
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user answering")
	cmd.Flags().StringVarP(&questionID, "question", "q", "", "question being answered")
	cmd.Flags().StringVarP(&answerID, "answer", "a", "", "answer picked")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}
