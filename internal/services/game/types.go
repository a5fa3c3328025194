package game

import (
	"log/slog"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/common/clock"
	"github.com/KirkDiggler/quizdraft/internal/common/uuid"
	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/perks"
	"github.com/KirkDiggler/quizdraft/internal/random"
	"github.com/KirkDiggler/quizdraft/internal/repositories/lobby"
	"github.com/KirkDiggler/quizdraft/internal/repositories/progress"
	"github.com/KirkDiggler/quizdraft/internal/scoring"
	"github.com/KirkDiggler/quizdraft/internal/services/draft"
	"github.com/KirkDiggler/quizdraft/internal/transport"
)

// DefaultRevealDelay is the pause between a reveal and the next question
const DefaultRevealDelay = 5 * time.Second

// Config holds the dependencies shared by every session
type Config struct {
	SessionRepo  lobby.Repository
	ProgressRepo progress.Repository
	DraftService draft.Service
	Emitter      transport.Emitter
	Clock        clock.Clock
	UUID         uuid.UUID
	Random       random.Source
	Logger       *slog.Logger

	// RevealDelay defaults to DefaultRevealDelay
	RevealDelay time.Duration
}

// PlayerInput is a player entering a session
type PlayerInput struct {
	ID        string
	Name      string
	Loadout   *perks.Loadout
	Connected bool
}

type BeginInput struct {
	LobbyCode     string
	QuestionSetID string
	Questions     []*models.Question
	TimeLimit     time.Duration
	Players       []*PlayerInput

	// Dispatch runs f on the goroutine that owns the session. Timer
	// callbacks go through it.
	Dispatch func(f func())

	// OnFinished runs once the last question was revealed and results were
	// written. It is not called for Cancel.
	OnFinished func(session Session)
}

type BeginOutput struct {
	Session Session
}

type SubmitAnswerInput struct {
	PlayerID string
	Answer   int
}

type SubmitAnswerOutput struct {
	QuestionIndex int

	// Revealed is true when this answer completed the question
	Revealed bool
}

type UseEliminateInput struct {
	PlayerID string
}

type UseEliminateOutput struct {
	QuestionIndex int
	Eliminated    []int
	UsesLeft      int
}

type UseHintInput struct {
	PlayerID string
}

type UseHintOutput struct {
	QuestionIndex int
	Hint          string
	UsesLeft      int
}

type DisconnectInput struct {
	PlayerID string
}

type DisconnectOutput struct {
	// Connected is the number of players still connected
	Connected int
}

type ReconnectInput struct {
	PlayerID string
}

type ReconnectOutput struct {
	Snapshot *Snapshot
}

type CancelInput struct {
}

// PlayerRun is a player's progress through one session
type PlayerRun struct {
	ID      string
	Name    string
	Loadout *perks.Loadout
	State   scoring.RunState

	EliminateLeft int
	HintLeft      int
	Connected     bool
	Answers       []models.AnswerDetail

	// CompletionTime sums the time taken on every scored question
	CompletionTime time.Duration

	// per-question, reset when a question opens
	submitted   bool
	selected    int
	submittedAt time.Time
	eliminated  []int
	hinted      bool
}

// ScoringWindow tells a player how their perks shape the answer window
type ScoringWindow struct {
	BonusSeconds float64 `json:"bonus_seconds"`
	TimerScale   float64 `json:"timer_scale"`

	// FloorAfterSeconds is the elapsed time at which the base score bottoms out
	FloorAfterSeconds float64 `json:"floor_after_seconds"`
}

// GameStartedPayload is the body of game-started
type GameStartedPayload struct {
	SessionID      string   `json:"session_id"`
	TotalQuestions int      `json:"total_questions"`
	TimeLimitMS    int64    `json:"time_limit_ms"`
	PlayerIDs      []string `json:"player_ids"`
}

// QuestionStartedPayload is the body of question-started
type QuestionStartedPayload struct {
	Index          int                      `json:"index"`
	TotalQuestions int                      `json:"total_questions"`
	Question       *models.PublicQuestion   `json:"question"`
	Deadline       time.Time                `json:"deadline"`
	TimeLimitMS    int64                    `json:"time_limit_ms"`
	Windows        map[string]ScoringWindow `json:"windows"`
}

// AnswerAcceptedPayload is the body of answer-accepted
type AnswerAcceptedPayload struct {
	Index int `json:"index"`
}

// RevealResult is one player's outcome for a question
type RevealResult struct {
	PlayerID       string               `json:"player_id"`
	SelectedAnswer int                  `json:"selected_answer"`
	IsCorrect      bool                 `json:"is_correct"`
	TimedOut       bool                 `json:"timed_out,omitempty"`
	PointsEarned   int                  `json:"points_earned"`
	MultiplierUsed float64              `json:"multiplier_used"`
	Streak         int                  `json:"streak"`
	Multiplier     float64              `json:"multiplier"`
	Score          int                  `json:"score"`
	Effects        []scoring.SideEffect `json:"effects,omitempty"`
}

// QuestionRevealedPayload is the body of question-revealed
type QuestionRevealedPayload struct {
	Index        int            `json:"index"`
	CorrectIndex int            `json:"correct_index"`
	Results      []RevealResult `json:"results"`
	Standings    []Standing     `json:"standings"`
}

// Standing is a player's place on the scoreboard
type Standing struct {
	PlayerID      string  `json:"player_id"`
	Name          string  `json:"name"`
	Score         int     `json:"score"`
	Correct       int     `json:"correct"`
	MaxMultiplier float64 `json:"max_multiplier"`
	PerfectBonus  int     `json:"perfect_bonus,omitempty"`
	MasteryBonus  int     `json:"mastery_bonus,omitempty"`
	XPEarned      int64   `json:"xp_earned,omitempty"`
}

// GameFinishedPayload is the body of game-finished
type GameFinishedPayload struct {
	SessionID string     `json:"session_id"`
	Standings []Standing `json:"standings"`
}

// DraftOfferedPayload is the body of draft-offered
type DraftOfferedPayload struct {
	DraftID        string   `json:"draft_id"`
	Level          int      `json:"level"`
	OfferedPerkIDs []string `json:"offered_perk_ids"`
}

// EliminateResultPayload is the body of eliminate-result
type EliminateResultPayload struct {
	Index      int   `json:"index"`
	Eliminated []int `json:"eliminated"`
	UsesLeft   int   `json:"uses_left"`
}

// HintResultPayload is the body of hint-result
type HintResultPayload struct {
	Index    int    `json:"index"`
	Hint     string `json:"hint"`
	UsesLeft int    `json:"uses_left"`
}

// PersistenceWarningPayload is the body of persistence-warning
type PersistenceWarningPayload struct {
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

// Snapshot is the state a reconnecting player needs to resume
type Snapshot struct {
	SessionID       string                 `json:"session_id"`
	Status          models.SessionStatus   `json:"status"`
	CurrentQuestion int                    `json:"current_question"`
	TotalQuestions  int                    `json:"total_questions"`
	Deadline        time.Time              `json:"deadline"`
	TimeRemainingMS int64                  `json:"time_remaining_ms"`
	Question        *models.PublicQuestion `json:"question,omitempty"`
	Submitted       bool                   `json:"submitted"`
	Eliminated      []int                  `json:"eliminated,omitempty"`
	Score           int                    `json:"score"`
	Streak          int                    `json:"streak"`
	Multiplier      float64                `json:"multiplier"`
	EliminateLeft   int                    `json:"eliminate_left"`
	HintLeft        int                    `json:"hint_left"`
	Answers         []models.AnswerDetail  `json:"answers"`
	Standings       []Standing             `json:"standings"`
}
