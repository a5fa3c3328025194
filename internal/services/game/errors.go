package game

import "github.com/KirkDiggler/quizdraft/internal/common/apperr"

// GameError is a construction error of the game service
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

const (
	ErrNilConfig       GameError = "config cannot be nil"
	ErrNilSessionRepo  GameError = "session repository cannot be nil"
	ErrNilProgressRepo GameError = "progress repository cannot be nil"
	ErrNilDraftService GameError = "draft service cannot be nil"
	ErrNilEmitter      GameError = "emitter cannot be nil"
	ErrNilClock        GameError = "clock cannot be nil"
	ErrNilUUID         GameError = "UUID generator cannot be nil"
	ErrNilRandom       GameError = "random source cannot be nil"
	ErrNilDispatch     GameError = "dispatch cannot be nil"
)

var (
	ErrNoQuestions      = apperr.New(apperr.KindValidation, "no_questions", "a game needs at least one question")
	ErrNoPlayers        = apperr.New(apperr.KindValidation, "no_players", "a game needs at least one player")
	ErrInvalidTimeLimit = apperr.New(apperr.KindValidation, "invalid_time_limit", "time limit must be positive")

	ErrSessionEnded       = apperr.New(apperr.KindSessionEnded, "session_ended", "the game has ended")
	ErrPlayerNotInSession = apperr.New(apperr.KindNotFound, "player_not_in_session", "player is not part of this game")
	ErrInvalidAnswer      = apperr.New(apperr.KindValidation, "invalid_answer", "answer is not one of the options")
	ErrQuestionClosed     = apperr.New(apperr.KindConflict, "question_closed", "the question is no longer accepting answers")
	ErrDuplicateAnswer    = apperr.New(apperr.KindConflict, "duplicate_answer", "an answer was already submitted for this question")
	ErrAlreadyAnswered    = apperr.New(apperr.KindConflict, "already_answered", "perks cannot be used after answering")
	ErrNoUsesRemaining    = apperr.New(apperr.KindConflict, "no_uses_remaining", "no uses of that perk remain")
	ErrAlreadyEliminated  = apperr.New(apperr.KindConflict, "already_eliminated", "options were already eliminated for this question")
	ErrNothingToEliminate = apperr.New(apperr.KindConflict, "nothing_to_eliminate", "no option can be eliminated")
	ErrNoHint             = apperr.New(apperr.KindConflict, "no_hint", "this question has no hint")
)
