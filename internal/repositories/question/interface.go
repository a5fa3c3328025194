package question

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/quizdraft/internal/repositories/question Repository

import (
	"context"
)

// Repository supplies the questions for a session
type Repository interface {
	// GetQuestions returns Count questions drawn from a question set
	GetQuestions(ctx context.Context, input *GetQuestionsInput) (*GetQuestionsOutput, error)

	// ListSets returns the available question sets
	ListSets(ctx context.Context, input *ListSetsInput) (*ListSetsOutput, error)
}
