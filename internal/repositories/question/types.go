package question

import (
	"errors"

	"github.com/KirkDiggler/quizdraft/internal/models"
)

var (
	// ErrSetNotFound is returned for an unknown question set
	ErrSetNotFound = errors.New("question set not found")

	// ErrNotEnoughQuestions is returned when a set is smaller than the request
	ErrNotEnoughQuestions = errors.New("not enough questions")
)

type GetQuestionsInput struct {
	QuestionSetID string
	Count         int
}

type GetQuestionsOutput struct {
	Questions []*models.Question
}

type ListSetsInput struct {
}

// SetInfo describes a question set without its questions
type SetInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ListSetsOutput struct {
	Sets []SetInfo
}
