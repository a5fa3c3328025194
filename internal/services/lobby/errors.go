package lobby

import "github.com/KirkDiggler/quizdraft/internal/common/apperr"

// LobbyError is a construction error of the lobby service
type LobbyError string

// Error implements the error interface
func (e LobbyError) Error() string {
	return string(e)
}

const (
	ErrNilConfig       LobbyError = "config cannot be nil"
	ErrNilLobbyRepo    LobbyError = "lobby repository cannot be nil"
	ErrNilQuestionRepo LobbyError = "question repository cannot be nil"
	ErrNilDraftService LobbyError = "draft service cannot be nil"
	ErrNilGameService  LobbyError = "game service cannot be nil"
	ErrNilEmitter      LobbyError = "emitter cannot be nil"
	ErrNilClock        LobbyError = "clock cannot be nil"
	ErrNilRandom       LobbyError = "random source cannot be nil"
)

var (
	ErrMissingPlayer        = apperr.New(apperr.KindValidation, "missing_player", "a player identity is required")
	ErrInvalidSettings      = apperr.New(apperr.KindValidation, "invalid_settings", "lobby settings are out of range")
	ErrQuestionsUnavailable = apperr.New(apperr.KindValidation, "questions_unavailable", "the question set cannot supply this game")

	ErrLobbyNotFound    = apperr.New(apperr.KindNotFound, "lobby_not_found", "no lobby with that code")
	ErrPlayerNotInLobby = apperr.New(apperr.KindNotFound, "player_not_in_lobby", "player is not in this lobby")

	ErrLobbyFull        = apperr.New(apperr.KindConflict, "lobby_full", "the lobby is full")
	ErrAlreadyStarted   = apperr.New(apperr.KindConflict, "already_started", "the game has already started")
	ErrNotHost          = apperr.New(apperr.KindConflict, "not_host", "only the host can do that")
	ErrNotWaiting       = apperr.New(apperr.KindConflict, "lobby_not_waiting", "the lobby is not waiting for players")
	ErrNotEnoughPlayers = apperr.New(apperr.KindConflict, "not_enough_players", "not enough players to start")
	ErrNotAllReady      = apperr.New(apperr.KindConflict, "not_all_ready", "every player must be ready")
	ErrDraftPending     = apperr.New(apperr.KindConflict, "draft_pending", "resolve your perk draft before readying up")
	ErrNotPlaying       = apperr.New(apperr.KindConflict, "game_not_started", "the game has not started")

	ErrSessionEnded  = apperr.New(apperr.KindSessionEnded, "session_ended", "the game has ended")
	ErrCodeExhausted = apperr.New(apperr.KindInternal, "code_exhausted", "could not allocate a lobby code")
)
