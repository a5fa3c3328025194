// Package game runs the question-by-question state machine of one lobby's
// game: it opens questions, collects answers until every connected player
// answered or the deadline passed, scores and reveals, and finally writes
// results and awards experience.
package game

import (
	"context"
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

// service implements the Service interface
type service struct {
	sessionRepo  lobby.Repository
	progressRepo progress.Repository
	draftService draft.Service
	emitter      transport.Emitter
	clock        clock.Clock
	uuid         uuid.UUID
	random       random.Source
	logger       *slog.Logger
	revealDelay  time.Duration
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}
	if cfg.ProgressRepo == nil {
		return nil, ErrNilProgressRepo
	}
	if cfg.DraftService == nil {
		return nil, ErrNilDraftService
	}
	if cfg.Emitter == nil {
		return nil, ErrNilEmitter
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}
	if cfg.Random == nil {
		return nil, ErrNilRandom
	}

	s := &service{
		sessionRepo:  cfg.SessionRepo,
		progressRepo: cfg.ProgressRepo,
		draftService: cfg.DraftService,
		emitter:      cfg.Emitter,
		clock:        cfg.Clock,
		uuid:         cfg.UUID,
		random:       cfg.Random,
		logger:       cfg.Logger,
		revealDelay:  cfg.RevealDelay,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.revealDelay <= 0 {
		s.revealDelay = DefaultRevealDelay
	}

	return s, nil
}

// Begin records a new session and opens question 0. A failure to record the
// session is reported as a persistence warning and the game still starts.
func (s *service) Begin(ctx context.Context, input *BeginInput) (*BeginOutput, error) {
	if input == nil || len(input.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if len(input.Players) == 0 {
		return nil, ErrNoPlayers
	}
	if input.TimeLimit <= 0 {
		return nil, ErrInvalidTimeLimit
	}
	if input.Dispatch == nil {
		return nil, ErrNilDispatch
	}

	sess := &session{
		svc: s,
		// timer-driven work outlives the request that started the game
		ctx: context.WithoutCancel(ctx),
		model: models.GameSession{
			ID:             s.uuid.NewUUID(),
			LobbyCode:      input.LobbyCode,
			QuestionSetID:  input.QuestionSetID,
			TotalQuestions: len(input.Questions),
			Status:         models.SessionStatusStarting,
			StartedAt:      s.clock.Now(),
		},
		questions:  input.Questions,
		timeLimit:  input.TimeLimit,
		byID:       make(map[string]*PlayerRun, len(input.Players)),
		dispatch:   input.Dispatch,
		onFinished: input.OnFinished,
	}

	playerIDs := make([]string, 0, len(input.Players))
	for _, p := range input.Players {
		loadout := p.Loadout
		if loadout == nil {
			loadout = perks.NewLoadout()
		}
		run := &PlayerRun{
			ID:            p.ID,
			Name:          p.Name,
			Loadout:       loadout,
			State:         scoring.NewRunState(loadout),
			EliminateLeft: loadout.EliminateUses,
			HintLeft:      loadout.HintUses,
			Connected:     p.Connected,
			selected:      -1,
		}
		sess.players = append(sess.players, run)
		sess.byID[p.ID] = run
		playerIDs = append(playerIDs, p.ID)
	}

	model := sess.model
	if err := s.sessionRepo.CreateSession(ctx, &lobby.CreateSessionInput{Session: &model}); err != nil {
		sess.warn(ctx, "create session", err)
	}

	s.logger.Info("game started",
		"lobby_code", input.LobbyCode,
		"session_id", sess.model.ID,
		"questions", len(input.Questions),
		"players", len(input.Players),
	)

	sess.emit(ctx, "", transport.EventGameStarted, &GameStartedPayload{
		SessionID:      sess.model.ID,
		TotalQuestions: len(input.Questions),
		TimeLimitMS:    input.TimeLimit.Milliseconds(),
		PlayerIDs:      playerIDs,
	})

	sess.openQuestion(ctx, 0)

	return &BeginOutput{Session: sess}, nil
}
