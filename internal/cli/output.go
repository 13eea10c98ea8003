package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"flash-me/internal/domain"
)

var exitCodes = map[domain.ErrorCode]int{
	domain.ErrInvalidInput:              2,
	domain.ErrNotFound:                  3,
	domain.ErrLLMServiceError:           4,
	domain.ErrNoQuestionsGenerated:      5,
	domain.ErrMalformedGenerationResult: 6,
	domain.ErrQuizStorage:               7,
}

// ExitCode maps an error returned by Execute onto a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := exitCodes[domain.CodeOf(err)]; ok {
		return code
	}
	return 1
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteError prints err to w, as a JSON body for domain errors.
func WriteError(w io.Writer, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		if encErr := writeJSON(w, map[string]interface{}{"error": domainErr}); encErr == nil {
			return
		}
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
