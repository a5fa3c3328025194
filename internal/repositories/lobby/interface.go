package lobby

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/quizdraft/internal/repositories/lobby Repository

import (
	"context"

	"github.com/KirkDiggler/quizdraft/internal/models"
)

// Repository persists live lobby and session state
type Repository interface {
	// CreateLobby stores a new lobby, failing with ErrLobbyExists if the code is taken
	CreateLobby(ctx context.Context, input *CreateLobbyInput) error

	// SaveLobby overwrites a lobby snapshot
	SaveLobby(ctx context.Context, input *SaveLobbyInput) error

	// GetLobby retrieves a lobby by code
	GetLobby(ctx context.Context, input *GetLobbyInput) (*models.Lobby, error)

	// DeleteLobby removes a lobby and its session
	DeleteLobby(ctx context.Context, input *DeleteLobbyInput) error

	// ListActiveLobbies retrieves every lobby that has not ended
	ListActiveLobbies(ctx context.Context, input *ListActiveLobbiesInput) (*ListActiveLobbiesOutput, error)

	// CreateSession stores a new game session
	CreateSession(ctx context.Context, input *CreateSessionInput) error

	// UpdateSessionState records a session status and question index change
	UpdateSessionState(ctx context.Context, input *UpdateSessionStateInput) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.GameSession, error)
}
