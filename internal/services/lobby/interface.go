package lobby

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/quizdraft/internal/services/lobby Service

import (
	"context"
)

// Service manages lobbies and routes game events to their sessions. Calls for
// the same lobby code are applied one at a time, in arrival order.
type Service interface {
	// CreateLobby opens a lobby with a fresh code and the caller as host
	CreateLobby(ctx context.Context, input *CreateLobbyInput) (*CreateLobbyOutput, error)

	// JoinLobby adds a player, or marks a returning player connected
	JoinLobby(ctx context.Context, input *JoinLobbyInput) (*JoinLobbyOutput, error)

	// SetReady toggles a player's ready flag
	SetReady(ctx context.Context, input *SetReadyInput) (*SetReadyOutput, error)

	// LeaveLobby removes a player before the game, or drops them during it
	LeaveLobby(ctx context.Context, input *LeaveLobbyInput) (*LeaveLobbyOutput, error)

	// UpdateSettings changes the question set, count or time limit
	UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error)

	// StartGame resolves loadouts, draws questions and begins the session
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// SubmitAnswer forwards an answer to the running session
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error)

	// UseEliminate forwards an eliminate request to the running session
	UseEliminate(ctx context.Context, input *UseEliminateInput) (*UseEliminateOutput, error)

	// UseHint forwards a hint request to the running session
	UseHint(ctx context.Context, input *UseHintInput) (*UseHintOutput, error)

	// Disconnect records a lost connection
	Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error)

	// Reconnect records a restored connection and returns a snapshot
	Reconnect(ctx context.Context, input *ReconnectInput) (*ReconnectOutput, error)

	// GetLobby returns a copy of a lobby
	GetLobby(ctx context.Context, input *GetLobbyInput) (*GetLobbyOutput, error)

	// Restore reloads lobbies left in the repository by a previous process
	Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error)

	// Shutdown stops every lobby
	Shutdown(ctx context.Context) error
}
