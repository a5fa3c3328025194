package lobby

import (
	"log/slog"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/common/clock"
	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/random"
	lobbyRepo "github.com/KirkDiggler/quizdraft/internal/repositories/lobby"
	"github.com/KirkDiggler/quizdraft/internal/repositories/question"
	"github.com/KirkDiggler/quizdraft/internal/services/draft"
	"github.com/KirkDiggler/quizdraft/internal/services/game"
	"github.com/KirkDiggler/quizdraft/internal/transport"
)

// Defaults applied when Config leaves a limit unset
const (
	DefaultMinPlayers    = 2
	DefaultMaxPlayers    = 8
	DefaultGracePeriod   = time.Minute
	DefaultInboxSize     = 64
	DefaultQuestionSet   = "general"
	DefaultQuestionCount = 10
	DefaultTimeLimit     = 20 * time.Second
)

// Settings bounds
const (
	MaxQuestionCount = 50
	MinTimeLimit     = 5 * time.Second
	MaxTimeLimit     = 2 * time.Minute
)

// CodeLength is the length of a lobby code
const CodeLength = 6

// Config holds the dependencies of the lobby service
type Config struct {
	LobbyRepo    lobbyRepo.Repository
	QuestionRepo question.Repository
	DraftService draft.Service
	GameService  game.Service
	Emitter      transport.Emitter
	Clock        clock.Clock
	Random       random.Source
	Logger       *slog.Logger

	MinPlayers int
	MaxPlayers int

	// GracePeriod keeps an ended lobby routable before it is removed
	GracePeriod time.Duration

	// DefaultSettings apply to lobbies created without settings
	DefaultSettings models.LobbySettings

	InboxSize int
}

type CreateLobbyInput struct {
	HostID    string
	HostName  string
	Character string

	// Settings are optional
	Settings *models.LobbySettings
}

type CreateLobbyOutput struct {
	Lobby *models.Lobby
}

type JoinLobbyInput struct {
	Code      string
	PlayerID  string
	Name      string
	Character string
}

type JoinLobbyOutput struct {
	Lobby *models.Lobby

	// Rejoined is true when the player was already in the lobby
	Rejoined bool

	// Snapshot is set when a player rejoins a running game
	Snapshot *game.Snapshot
}

type SetReadyInput struct {
	Code     string
	PlayerID string
	Ready    bool
}

type SetReadyOutput struct {
	Lobby *models.Lobby
}

type LeaveLobbyInput struct {
	Code     string
	PlayerID string
}

type LeaveLobbyOutput struct {
	// Deleted is true when the last player left a waiting lobby
	Deleted bool
}

type UpdateSettingsInput struct {
	Code     string
	PlayerID string
	Settings models.LobbySettings
}

type UpdateSettingsOutput struct {
	Lobby *models.Lobby
}

type StartGameInput struct {
	Code     string
	PlayerID string
}

type StartGameOutput struct {
	SessionID string
}

type SubmitAnswerInput struct {
	Code     string
	PlayerID string
	Answer   int
}

type SubmitAnswerOutput struct {
	QuestionIndex int
	Revealed      bool
}

type UseEliminateInput struct {
	Code     string
	PlayerID string
}

type UseEliminateOutput struct {
	QuestionIndex int
	Eliminated    []int
	UsesLeft      int
}

type UseHintInput struct {
	Code     string
	PlayerID string
}

type UseHintOutput struct {
	QuestionIndex int
	Hint          string
	UsesLeft      int
}

type DisconnectInput struct {
	Code     string
	PlayerID string
}

type DisconnectOutput struct {
	// Cancelled is true when this disconnect left nobody connected
	Cancelled bool
}

type ReconnectInput struct {
	Code     string
	PlayerID string
}

type ReconnectOutput struct {
	Lobby    *models.Lobby
	Snapshot *game.Snapshot
}

type GetLobbyInput struct {
	Code string
}

type GetLobbyOutput struct {
	Lobby *models.Lobby
}

type RestoreInput struct {
}

type RestoreOutput struct {
	// Restored counts waiting lobbies that are routable again
	Restored int

	// Cancelled counts games that were running when the process stopped
	Cancelled int
}

// LobbyUpdatedPayload is broadcast after every roster or settings change
type LobbyUpdatedPayload struct {
	Lobby *models.Lobby `json:"lobby"`
}

// ReconnectedPayload is sent to a returning player
type ReconnectedPayload struct {
	Lobby    *models.Lobby  `json:"lobby"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}
