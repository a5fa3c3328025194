package lobby

import (
	"time"

	"github.com/KirkDiggler/quizdraft/internal/models"
)

type CreateLobbyInput struct {
	Lobby *models.Lobby
}

type SaveLobbyInput struct {
	Lobby *models.Lobby
}

type GetLobbyInput struct {
	Code string
}

type DeleteLobbyInput struct {
	Code string
}

type ListActiveLobbiesInput struct {
}

type ListActiveLobbiesOutput struct {
	Lobbies []*models.Lobby
}

type CreateSessionInput struct {
	Session *models.GameSession
}

type UpdateSessionStateInput struct {
	SessionID       string
	Status          models.SessionStatus
	CurrentQuestion int
	Deadline        time.Time
	EndedAt         *time.Time
}

type GetSessionInput struct {
	SessionID string
}
