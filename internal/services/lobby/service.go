// Package lobby manages the pre-game rooms and forwards in-game events to
// their running sessions. Each lobby code is owned by one actor goroutine fed
// through an inbox, so calls on the same lobby never race while different
// lobbies proceed in parallel.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/common/apperr"
	"github.com/KirkDiggler/quizdraft/internal/common/clock"
	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/random"
	lobbyRepo "github.com/KirkDiggler/quizdraft/internal/repositories/lobby"
	"github.com/KirkDiggler/quizdraft/internal/repositories/question"
	"github.com/KirkDiggler/quizdraft/internal/services/draft"
	"github.com/KirkDiggler/quizdraft/internal/services/game"
	"github.com/KirkDiggler/quizdraft/internal/transport"
)

// service implements the Service interface
type service struct {
	lobbyRepo    lobbyRepo.Repository
	questionRepo question.Repository
	draftService draft.Service
	gameService  game.Service
	emitter      transport.Emitter
	clock        clock.Clock
	random       random.Source
	logger       *slog.Logger

	minPlayers  int
	maxPlayers  int
	gracePeriod time.Duration
	defaults    models.LobbySettings
	inboxSize   int

	mu     sync.RWMutex
	actors map[string]*actor
}

// New creates a new lobby service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.LobbyRepo == nil {
		return nil, ErrNilLobbyRepo
	}
	if cfg.QuestionRepo == nil {
		return nil, ErrNilQuestionRepo
	}
	if cfg.DraftService == nil {
		return nil, ErrNilDraftService
	}
	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}
	if cfg.Emitter == nil {
		return nil, ErrNilEmitter
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.Random == nil {
		return nil, ErrNilRandom
	}

	s := &service{
		lobbyRepo:    cfg.LobbyRepo,
		questionRepo: cfg.QuestionRepo,
		draftService: cfg.DraftService,
		gameService:  cfg.GameService,
		emitter:      cfg.Emitter,
		clock:        cfg.Clock,
		random:       cfg.Random,
		logger:       cfg.Logger,
		minPlayers:   cfg.MinPlayers,
		maxPlayers:   cfg.MaxPlayers,
		gracePeriod:  cfg.GracePeriod,
		defaults:     cfg.DefaultSettings,
		inboxSize:    cfg.InboxSize,
		actors:       make(map[string]*actor),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.minPlayers <= 0 {
		s.minPlayers = DefaultMinPlayers
	}
	if s.maxPlayers <= 0 {
		s.maxPlayers = DefaultMaxPlayers
	}
	if s.maxPlayers < s.minPlayers {
		return nil, fmt.Errorf("max players %d is below min players %d", s.maxPlayers, s.minPlayers)
	}
	if s.gracePeriod <= 0 {
		s.gracePeriod = DefaultGracePeriod
	}
	if s.inboxSize <= 0 {
		s.inboxSize = DefaultInboxSize
	}
	if s.defaults.QuestionSetID == "" {
		s.defaults.QuestionSetID = DefaultQuestionSet
	}
	if s.defaults.QuestionCount <= 0 {
		s.defaults.QuestionCount = DefaultQuestionCount
	}
	if s.defaults.TimeLimit <= 0 {
		s.defaults.TimeLimit = DefaultTimeLimit
	}
	if err := validateSettings(s.defaults); err != nil {
		return nil, fmt.Errorf("default settings: %w", err)
	}

	return s, nil
}

// CreateLobby opens a lobby with the caller as host. Codes are drawn until one
// is free both locally and in the repository.
func (s *service) CreateLobby(ctx context.Context, input *CreateLobbyInput) (*CreateLobbyOutput, error) {
	if input == nil || input.HostID == "" {
		return nil, ErrMissingPlayer
	}
	settings := s.defaults
	if input.Settings != nil {
		settings = *input.Settings
	}
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.newCode()
		if s.lookup(code) != nil {
			continue
		}

		now := s.clock.Now()
		l := &models.Lobby{
			Code:     code,
			HostID:   input.HostID,
			Status:   models.LobbyStatusWaiting,
			Settings: settings,
			Players: []*models.LobbyPlayer{{
				ID:        input.HostID,
				Name:      input.HostName,
				Character: input.Character,
				Connected: true,
			}},
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := s.lobbyRepo.CreateLobby(ctx, &lobbyRepo.CreateLobbyInput{Lobby: l})
		if errors.Is(err, lobbyRepo.ErrLobbyExists) {
			continue
		}
		if err != nil {
			return nil, apperr.Persistence("create lobby", err)
		}

		a := newActor(l, s.inboxSize)
		if !s.register(a) {
			continue
		}

		s.logger.Info("lobby created", "lobby_code", code, "host_id", input.HostID)
		out := &CreateLobbyOutput{}
		err = s.exec(ctx, code, func(a *actor) error {
			s.emitLobby(ctx, a)
			out.Lobby = s.view(a)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	return nil, ErrCodeExhausted
}

// JoinLobby adds a player to a waiting lobby. A player already on the roster
// is marked connected instead, in any state short of ended, and receives a
// snapshot when the game is running.
func (s *service) JoinLobby(ctx context.Context, input *JoinLobbyInput) (*JoinLobbyOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	out := &JoinLobbyOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		l := a.lobby
		if l.Status.IsEnded() {
			return ErrSessionEnded
		}

		if p := l.Player(input.PlayerID); p != nil {
			p.Connected = true
			a.stopRemoval()
			out.Rejoined = true
			out.Snapshot = s.reconnectSession(ctx, a, input.PlayerID)
			s.touch(ctx, a)
			out.Lobby = s.view(a)
			return nil
		}

		if l.Status != models.LobbyStatusWaiting {
			return ErrAlreadyStarted
		}
		if len(l.Players) >= s.maxPlayers {
			return ErrLobbyFull
		}

		l.Players = append(l.Players, &models.LobbyPlayer{
			ID:        input.PlayerID,
			Name:      input.Name,
			Character: input.Character,
			Connected: true,
		})
		a.stopRemoval()
		s.touch(ctx, a)
		out.Lobby = s.view(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// SetReady toggles a player's ready flag. Readying up is refused while the
// player still owes a perk draft.
func (s *service) SetReady(ctx context.Context, input *SetReadyInput) (*SetReadyOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	out := &SetReadyOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		l := a.lobby
		if l.Status.IsEnded() {
			return ErrSessionEnded
		}
		p := l.Player(input.PlayerID)
		if p == nil {
			return ErrPlayerNotInLobby
		}
		if l.Status != models.LobbyStatusWaiting {
			return ErrNotWaiting
		}

		if input.Ready && !p.Ready {
			pending, err := s.draftService.GetPendingDraft(ctx, &draft.GetPendingDraftInput{UserID: p.ID})
			if err != nil {
				return err
			}
			if pending.Draft != nil {
				return ErrDraftPending
			}
		}

		if p.Ready != input.Ready {
			p.Ready = input.Ready
			s.touch(ctx, a)
		}
		out.Lobby = s.view(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// LeaveLobby removes a player from a waiting lobby, handing the host role on
// and deleting the lobby once empty. During a game leaving counts as a
// disconnect so the player keeps their results.
func (s *service) LeaveLobby(ctx context.Context, input *LeaveLobbyInput) (*LeaveLobbyOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	out := &LeaveLobbyOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		l := a.lobby
		p := l.Player(input.PlayerID)
		if p == nil {
			return ErrPlayerNotInLobby
		}

		switch {
		case l.Status.IsEnded():
			p.Connected = false
		case l.Status == models.LobbyStatusPlaying:
			s.disconnect(ctx, a, p)
		default:
			l.RemovePlayer(p.ID)
			if len(l.Players) == 0 {
				s.remove(ctx, a)
				out.Deleted = true
				return nil
			}
			if l.HostID == p.ID {
				l.HostID = l.Players[0].ID
			}
			s.touch(ctx, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player left", "lobby_code", normalizeCode(input.Code), "player_id", input.PlayerID, "deleted", out.Deleted)
	return out, nil
}

// UpdateSettings lets the host change the game before it starts. Changing
// settings clears every ready flag.
func (s *service) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}
	if err := validateSettings(input.Settings); err != nil {
		return nil, err
	}

	out := &UpdateSettingsOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		l := a.lobby
		if l.Status.IsEnded() {
			return ErrSessionEnded
		}
		if l.HostID != input.PlayerID {
			return ErrNotHost
		}
		if l.Status != models.LobbyStatusWaiting {
			return ErrNotWaiting
		}

		l.Settings = input.Settings
		for _, p := range l.Players {
			p.Ready = false
		}
		s.touch(ctx, a)
		out.Lobby = s.view(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// StartGame checks the roster, draws questions, resolves every player's
// loadout and begins the session. Nothing changes if any step fails.
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	out := &StartGameOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		l := a.lobby
		if l.Status.IsEnded() {
			return ErrSessionEnded
		}
		if l.HostID != input.PlayerID {
			return ErrNotHost
		}
		if l.Status != models.LobbyStatusWaiting {
			return ErrAlreadyStarted
		}
		if len(l.Players) < s.minPlayers {
			return ErrNotEnoughPlayers
		}
		for _, p := range l.Players {
			if !p.Ready {
				return ErrNotAllReady
			}
		}

		questions, err := s.questionRepo.GetQuestions(ctx, &question.GetQuestionsInput{
			QuestionSetID: l.Settings.QuestionSetID,
			Count:         l.Settings.QuestionCount,
		})
		if errors.Is(err, question.ErrSetNotFound) || errors.Is(err, question.ErrNotEnoughQuestions) {
			return ErrQuestionsUnavailable.Wrap(err)
		}
		if err != nil {
			return fmt.Errorf("failed to get questions: %w", err)
		}

		players := make([]*game.PlayerInput, 0, len(l.Players))
		for _, p := range l.Players {
			loadout, err := s.draftService.GetLoadout(ctx, &draft.GetLoadoutInput{UserID: p.ID})
			if err != nil {
				return err
			}
			players = append(players, &game.PlayerInput{
				ID:        p.ID,
				Name:      p.Name,
				Loadout:   loadout.Loadout,
				Connected: p.Connected,
			})
		}

		begun, err := s.gameService.Begin(ctx, &game.BeginInput{
			LobbyCode:     l.Code,
			QuestionSetID: l.Settings.QuestionSetID,
			Questions:     questions.Questions,
			TimeLimit:     l.Settings.TimeLimit,
			Players:       players,
			Dispatch:      a.post,
			OnFinished:    func(game.Session) { s.finished(a) },
		})
		if err != nil {
			return err
		}

		a.session = begun.Session
		l.Status = models.LobbyStatusPlaying
		l.SessionID = begun.Session.ID()
		s.touch(ctx, a)

		out.SessionID = l.SessionID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *service) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	out := &SubmitAnswerOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		sess, err := running(a)
		if err != nil {
			return err
		}
		res, err := sess.SubmitAnswer(ctx, &game.SubmitAnswerInput{PlayerID: input.PlayerID, Answer: input.Answer})
		if err != nil {
			return err
		}
		out.QuestionIndex = res.QuestionIndex
		out.Revealed = res.Revealed
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *service) UseEliminate(ctx context.Context, input *UseEliminateInput) (*UseEliminateOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	out := &UseEliminateOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		sess, err := running(a)
		if err != nil {
			return err
		}
		res, err := sess.UseEliminate(ctx, &game.UseEliminateInput{PlayerID: input.PlayerID})
		if err != nil {
			return err
		}
		out.QuestionIndex = res.QuestionIndex
		out.Eliminated = res.Eliminated
		out.UsesLeft = res.UsesLeft
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *service) UseHint(ctx context.Context, input *UseHintInput) (*UseHintOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	out := &UseHintOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		sess, err := running(a)
		if err != nil {
			return err
		}
		res, err := sess.UseHint(ctx, &game.UseHintInput{PlayerID: input.PlayerID})
		if err != nil {
			return err
		}
		out.QuestionIndex = res.QuestionIndex
		out.Hint = res.Hint
		out.UsesLeft = res.UsesLeft
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Disconnect records a lost connection. A running game with nobody left is
// cancelled; a waiting lobby with nobody left is removed after the grace
// period unless someone returns.
func (s *service) Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	out := &DisconnectOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		p := a.lobby.Player(input.PlayerID)
		if p == nil {
			return ErrPlayerNotInLobby
		}
		if a.lobby.Status.IsEnded() {
			p.Connected = false
			return nil
		}
		out.Cancelled = s.disconnect(ctx, a, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Reconnect marks a player connected again and sends them a reconnected event
// with the session snapshot
func (s *service) Reconnect(ctx context.Context, input *ReconnectInput) (*ReconnectOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	out := &ReconnectOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		if a.lobby.Status.IsEnded() {
			return ErrSessionEnded
		}
		p := a.lobby.Player(input.PlayerID)
		if p == nil {
			return ErrPlayerNotInLobby
		}

		p.Connected = true
		a.stopRemoval()
		out.Snapshot = s.reconnectSession(ctx, a, p.ID)
		s.touch(ctx, a)
		out.Lobby = s.view(a)

		s.emit(ctx, a.code, p.ID, transport.EventReconnected, &ReconnectedPayload{
			Lobby:    out.Lobby,
			Snapshot: out.Snapshot,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *service) GetLobby(ctx context.Context, input *GetLobbyInput) (*GetLobbyOutput, error) {
	if input == nil {
		return nil, ErrLobbyNotFound
	}

	out := &GetLobbyOutput{}
	err := s.exec(ctx, input.Code, func(a *actor) error {
		out.Lobby = s.view(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Restore picks up the lobbies a previous process left active. Waiting
// lobbies come back with everyone disconnected. Games in flight cannot be
// resumed, so they are cancelled and kept only for the grace period.
func (s *service) Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error) {
	active, err := s.lobbyRepo.ListActiveLobbies(ctx, &lobbyRepo.ListActiveLobbiesInput{})
	if err != nil {
		return nil, apperr.Persistence("list lobbies", err)
	}

	out := &RestoreOutput{}
	for _, l := range active.Lobbies {
		if s.lookup(l.Code) != nil {
			continue
		}
		for _, p := range l.Players {
			p.Connected = false
		}

		if l.Status == models.LobbyStatusPlaying {
			s.cancelStored(ctx, l)
			out.Cancelled++
		} else {
			out.Restored++
		}

		a := newActor(l, s.inboxSize)
		if !s.register(a) {
			continue
		}
		a.post(func() { s.scheduleRemoval(a) })
	}

	s.logger.Info("lobbies restored", "restored", out.Restored, "cancelled", out.Cancelled)
	return out, nil
}

// Shutdown cancels running games and stops every actor. Waiting lobbies stay
// in the repository for Restore.
func (s *service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	actors := make([]*actor, 0, len(s.actors))
	for _, a := range s.actors {
		actors = append(actors, a)
	}
	s.actors = make(map[string]*actor)
	s.mu.Unlock()

	for _, a := range actors {
		a.post(func() {
			a.stopRemoval()
			if a.session != nil && !a.lobby.Status.IsEnded() {
				s.cancelGame(ctx, a)
			}
			a.stopped = true
		})
	}

	for _, a := range actors {
		select {
		case <-a.done:
		case <-ctx.Done():
			for _, a := range actors {
				select {
				case <-a.done:
				default:
					close(a.quit)
				}
			}
			return ctx.Err()
		}
	}

	s.logger.Info("lobbies shut down", "count", len(actors))
	return nil
}

// exec runs f on the actor of code and waits for it
func (s *service) exec(ctx context.Context, code string, f func(a *actor) error) error {
	a := s.lookup(code)
	if a == nil {
		return ErrLobbyNotFound
	}

	reply := make(chan error, 1)
	select {
	case a.inbox <- func() { reply <- f(a) }:
	case <-a.done:
		return ErrLobbyNotFound
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-a.done:
		// f may have removed the lobby itself
		select {
		case err := <-reply:
			return err
		default:
			return ErrLobbyNotFound
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *service) lookup(code string) *actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actors[normalizeCode(code)]
}

// register adds a and starts it, unless the code is already taken
func (s *service) register(a *actor) bool {
	s.mu.Lock()
	if _, taken := s.actors[a.code]; taken {
		s.mu.Unlock()
		return false
	}
	s.actors[a.code] = a
	s.mu.Unlock()

	go a.run()
	return true
}

// remove deletes the lobby everywhere and stops its actor after the current
// closure returns
func (s *service) remove(ctx context.Context, a *actor) {
	a.stopRemoval()

	s.mu.Lock()
	if s.actors[a.code] == a {
		delete(s.actors, a.code)
	}
	s.mu.Unlock()

	if err := s.lobbyRepo.DeleteLobby(ctx, &lobbyRepo.DeleteLobbyInput{Code: a.code}); err != nil {
		s.logger.Error("failed to delete lobby", "lobby_code", a.code, "error", err)
	}
	a.stopped = true

	s.logger.Info("lobby removed", "lobby_code", a.code)
}

// disconnect marks p gone and reports whether that cancelled the game
func (s *service) disconnect(ctx context.Context, a *actor, p *models.LobbyPlayer) bool {
	p.Connected = false

	if a.session != nil {
		if _, err := a.session.Disconnect(ctx, &game.DisconnectInput{PlayerID: p.ID}); err != nil {
			s.logger.Warn("session disconnect failed", "lobby_code", a.code, "player_id", p.ID, "error", err)
		}
	}

	if a.lobby.ConnectedCount() > 0 {
		s.touch(ctx, a)
		return false
	}

	if a.lobby.Status == models.LobbyStatusPlaying {
		s.cancelGame(ctx, a)
		s.scheduleRemoval(a)
		return true
	}

	s.save(ctx, a)
	s.scheduleRemoval(a)
	return false
}

// cancelGame ends a running game without results or further events
func (s *service) cancelGame(ctx context.Context, a *actor) {
	if a.session != nil {
		if err := a.session.Cancel(ctx, &game.CancelInput{}); err != nil {
			s.logger.Error("failed to cancel session", "lobby_code", a.code, "error", err)
		}
		a.lobby.CurrentQuestion = a.session.CurrentQuestion()
	}
	a.lobby.Status = models.LobbyStatusCancelled
	s.save(ctx, a)

	s.logger.Info("lobby cancelled", "lobby_code", a.code)
}

// cancelStored marks a game that was running in a previous process as cancelled
func (s *service) cancelStored(ctx context.Context, l *models.Lobby) {
	now := s.clock.Now()
	if l.SessionID != "" {
		update := &lobbyRepo.UpdateSessionStateInput{
			SessionID:       l.SessionID,
			Status:          models.SessionStatusCancelled,
			CurrentQuestion: l.CurrentQuestion,
			EndedAt:         &now,
		}
		stored, err := s.lobbyRepo.GetSession(ctx, &lobbyRepo.GetSessionInput{SessionID: l.SessionID})
		if err == nil {
			update.CurrentQuestion = stored.CurrentQuestion
			update.Deadline = stored.Deadline
		}
		if err := s.lobbyRepo.UpdateSessionState(ctx, update); err != nil {
			s.logger.Error("failed to cancel stored session", "lobby_code", l.Code, "session_id", l.SessionID, "error", err)
		}
	}

	l.Status = models.LobbyStatusCancelled
	l.UpdatedAt = now
	if err := s.lobbyRepo.SaveLobby(ctx, &lobbyRepo.SaveLobbyInput{Lobby: l}); err != nil {
		s.logger.Error("failed to save lobby", "lobby_code", l.Code, "error", err)
	}
}

// finished runs on the actor once the session wrote its results
func (s *service) finished(a *actor) {
	ctx := context.Background()
	a.lobby.Status = models.LobbyStatusFinished
	if a.session != nil {
		a.lobby.CurrentQuestion = a.session.CurrentQuestion()
	}
	s.touch(ctx, a)
	s.scheduleRemoval(a)
}

// scheduleRemoval removes the lobby after the grace period. A waiting lobby
// survives if somebody reconnected in the meantime.
func (s *service) scheduleRemoval(a *actor) {
	a.stopRemoval()
	a.removal = s.clock.AfterFunc(s.gracePeriod, func() {
		a.post(func() {
			if a.stopped {
				return
			}
			if a.lobby.Status == models.LobbyStatusWaiting && a.lobby.ConnectedCount() > 0 {
				return
			}
			s.remove(context.Background(), a)
		})
	})
}

func (s *service) reconnectSession(ctx context.Context, a *actor, playerID string) *game.Snapshot {
	if a.session == nil {
		return nil
	}
	res, err := a.session.Reconnect(ctx, &game.ReconnectInput{PlayerID: playerID})
	if err != nil {
		s.logger.Warn("session reconnect failed", "lobby_code", a.code, "player_id", playerID, "error", err)
		return nil
	}
	return res.Snapshot
}

func running(a *actor) (game.Session, error) {
	if a.lobby.Status.IsEnded() {
		return nil, ErrSessionEnded
	}
	if a.session == nil {
		return nil, ErrNotPlaying
	}
	return a.session, nil
}

// view returns a copy of the lobby with the live question index
func (s *service) view(a *actor) *models.Lobby {
	l := a.lobby.Clone()
	if a.session != nil {
		l.CurrentQuestion = a.session.CurrentQuestion()
	}
	return l
}

// touch saves the lobby and tells its players
func (s *service) touch(ctx context.Context, a *actor) {
	a.lobby.UpdatedAt = s.clock.Now()
	if !s.save(ctx, a) {
		s.emit(ctx, a.code, "", transport.EventPersistenceWarning, &game.PersistenceWarningPayload{
			Operation: "save lobby",
			Message:   "lobby changes may be lost on restart",
		})
	}
	s.emitLobby(ctx, a)
}

func (s *service) save(ctx context.Context, a *actor) bool {
	if a.session != nil {
		a.lobby.CurrentQuestion = a.session.CurrentQuestion()
	}
	if err := s.lobbyRepo.SaveLobby(ctx, &lobbyRepo.SaveLobbyInput{Lobby: a.lobby}); err != nil {
		s.logger.Error("failed to save lobby", "lobby_code", a.code, "error", err)
		return false
	}
	return true
}

func (s *service) emitLobby(ctx context.Context, a *actor) {
	s.emit(ctx, a.code, "", transport.EventLobbyUpdated, &LobbyUpdatedPayload{Lobby: s.view(a)})
}

func (s *service) emit(ctx context.Context, code, playerID, event string, payload any) {
	err := s.emitter.Emit(ctx, &transport.EmitInput{
		LobbyCode: code,
		PlayerID:  playerID,
		Event:     event,
		Payload:   payload,
	})
	if err != nil {
		s.logger.Warn("failed to emit event", "lobby_code", code, "event", event, "error", err)
	}
}

func validateSettings(st models.LobbySettings) error {
	switch {
	case st.QuestionSetID == "":
		return ErrInvalidSettings.Wrap(errors.New("question set is required"))
	case st.QuestionCount < 1 || st.QuestionCount > MaxQuestionCount:
		return ErrInvalidSettings.Wrap(fmt.Errorf("question count must be between 1 and %d", MaxQuestionCount))
	case st.TimeLimit < MinTimeLimit || st.TimeLimit > MaxTimeLimit:
		return ErrInvalidSettings.Wrap(fmt.Errorf("time limit must be between %s and %s", MinTimeLimit, MaxTimeLimit))
	}
	return nil
}
