package game

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/quizdraft/internal/services/game Service

import (
	"context"

	"github.com/KirkDiggler/quizdraft/internal/models"
)

// Service starts game sessions that share one set of dependencies
type Service interface {
	// Begin records a new session and opens its first question
	Begin(ctx context.Context, input *BeginInput) (*BeginOutput, error)
}

// Session is one running game. A Session is not safe for concurrent use: it
// belongs to the goroutine behind BeginInput.Dispatch, and every method and
// timer callback must run there.
type Session interface {
	// ID returns the session id
	ID() string

	// Status returns the current state
	Status() models.SessionStatus

	// CurrentQuestion returns the index of the active or last revealed question
	CurrentQuestion() int

	// SubmitAnswer records a player's answer to the active question
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error)

	// UseEliminate removes wrong options from the active question for a player
	UseEliminate(ctx context.Context, input *UseEliminateInput) (*UseEliminateOutput, error)

	// UseHint reveals the hint of the active question to a player
	UseHint(ctx context.Context, input *UseHintInput) (*UseHintOutput, error)

	// Disconnect marks a player as gone
	Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error)

	// Reconnect marks a player as back and returns what they missed
	Reconnect(ctx context.Context, input *ReconnectInput) (*ReconnectOutput, error)

	// Cancel ends the session without results
	Cancel(ctx context.Context, input *CancelInput) error
}
