package lobby

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/common/clock"
	"github.com/KirkDiggler/quizdraft/internal/common/uuid"
	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/perks"
	"github.com/KirkDiggler/quizdraft/internal/random"
	lobbyRepo "github.com/KirkDiggler/quizdraft/internal/repositories/lobby"
	lobbyMocks "github.com/KirkDiggler/quizdraft/internal/repositories/lobby/mocks"
	"github.com/KirkDiggler/quizdraft/internal/repositories/progress"
	progressMocks "github.com/KirkDiggler/quizdraft/internal/repositories/progress/mocks"
	"github.com/KirkDiggler/quizdraft/internal/repositories/question"
	questionMocks "github.com/KirkDiggler/quizdraft/internal/repositories/question/mocks"
	"github.com/KirkDiggler/quizdraft/internal/services/draft"
	draftMocks "github.com/KirkDiggler/quizdraft/internal/services/draft/mocks"
	"github.com/KirkDiggler/quizdraft/internal/services/game"
	"github.com/KirkDiggler/quizdraft/internal/transport"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// recordingEmitter is written from actor goroutines and read by the test
type recordingEmitter struct {
	mu     sync.Mutex
	events []*transport.EmitInput
}

func (r *recordingEmitter) Emit(_ context.Context, input *transport.EmitInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, input)
	return nil
}

func (r *recordingEmitter) named(event string) []*transport.EmitInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*transport.EmitInput
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type LobbyServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockLobbyRepo    *lobbyMocks.MockRepository
	mockQuestionRepo *questionMocks.MockRepository
	mockProgressRepo *progressMocks.MockRepository
	mockDraftService *draftMocks.MockService
	emitter          *recordingEmitter
	clock            *clock.Fake
	service          *service
	ctx              context.Context

	testTime    time.Time
	revealDelay time.Duration
	gracePeriod time.Duration
	settings    models.LobbySettings
	questions   []*models.Question

	// pending maps a user to the draft GetPendingDraft reports
	pending map[string]*models.UserPerkDraft
}

func (s *LobbyServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockLobbyRepo = lobbyMocks.NewMockRepository(s.mockCtrl)
	s.mockQuestionRepo = questionMocks.NewMockRepository(s.mockCtrl)
	s.mockProgressRepo = progressMocks.NewMockRepository(s.mockCtrl)
	s.mockDraftService = draftMocks.NewMockService(s.mockCtrl)
	s.emitter = &recordingEmitter{}
	s.ctx = context.Background()

	s.testTime = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s.clock = clock.NewFake(s.testTime)
	s.revealDelay = 3 * time.Second
	s.gracePeriod = time.Minute
	s.settings = models.LobbySettings{QuestionSetID: "general", QuestionCount: 2, TimeLimit: 20 * time.Second}
	s.questions = []*models.Question{
		{ID: "q0", Text: "Capital of France?", Options: []string{"Paris", "Lyon", "Nice", "Lille"}, CorrectIndex: 0},
		{ID: "q1", Text: "2 + 2?", Options: []string{"3", "4", "5", "22"}, CorrectIndex: 1},
	}
	s.pending = make(map[string]*models.UserPerkDraft)

	s.mockDraftService.EXPECT().
		GetPendingDraft(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *draft.GetPendingDraftInput) (*draft.GetPendingDraftOutput, error) {
			return &draft.GetPendingDraftOutput{Draft: s.pending[input.UserID]}, nil
		}).AnyTimes()
	s.mockDraftService.EXPECT().
		GetLoadout(gomock.Any(), gomock.Any()).
		Return(&draft.GetLoadoutOutput{Loadout: perks.NewLoadout()}, nil).AnyTimes()

	gameSvc, err := game.New(&game.Config{
		SessionRepo:  s.mockLobbyRepo,
		ProgressRepo: s.mockProgressRepo,
		DraftService: s.mockDraftService,
		Emitter:      s.emitter,
		Clock:        s.clock,
		UUID:         &uuid.Sequence{Prefix: "session"},
		Random:       random.New(&random.Config{Seed: 3}),
		RevealDelay:  s.revealDelay,
	})
	s.Require().NoError(err)

	svc, err := New(&Config{
		LobbyRepo:       s.mockLobbyRepo,
		QuestionRepo:    s.mockQuestionRepo,
		DraftService:    s.mockDraftService,
		GameService:     gameSvc,
		Emitter:         s.emitter,
		Clock:           s.clock,
		Random:          random.New(&random.Config{Seed: 11}),
		MaxPlayers:      3,
		GracePeriod:     s.gracePeriod,
		DefaultSettings: s.settings,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *LobbyServiceTestSuite) TearDownTest() {
	s.Require().NoError(s.service.Shutdown(s.ctx))
	s.mockCtrl.Finish()
}

func TestLobbyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LobbyServiceTestSuite))
}

func (s *LobbyServiceTestSuite) expectLobbyWrites() {
	s.mockLobbyRepo.EXPECT().CreateLobby(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockLobbyRepo.EXPECT().SaveLobby(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockLobbyRepo.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockLobbyRepo.EXPECT().UpdateSessionState(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (s *LobbyServiceTestSuite) expectQuestions() {
	s.mockQuestionRepo.EXPECT().
		GetQuestions(gomock.Any(), &question.GetQuestionsInput{QuestionSetID: "general", Count: 2}).
		Return(&question.GetQuestionsOutput{Questions: s.questions}, nil)
}

func (s *LobbyServiceTestSuite) create(hostID string) string {
	out, err := s.service.CreateLobby(s.ctx, &CreateLobbyInput{HostID: hostID, HostName: "Player " + hostID})
	s.Require().NoError(err)
	return out.Lobby.Code
}

func (s *LobbyServiceTestSuite) join(code string, ids ...string) {
	for _, id := range ids {
		_, err := s.service.JoinLobby(s.ctx, &JoinLobbyInput{Code: code, PlayerID: id, Name: "Player " + id})
		s.Require().NoError(err)
	}
}

func (s *LobbyServiceTestSuite) ready(code string, ids ...string) {
	for _, id := range ids {
		_, err := s.service.SetReady(s.ctx, &SetReadyInput{Code: code, PlayerID: id, Ready: true})
		s.Require().NoError(err)
	}
}

// lobby reads the lobby through the actor, which also waits for anything a
// timer posted before it
func (s *LobbyServiceTestSuite) lobby(code string) *models.Lobby {
	out, err := s.service.GetLobby(s.ctx, &GetLobbyInput{Code: code})
	s.Require().NoError(err)
	return out.Lobby
}

func (s *LobbyServiceTestSuite) startedGame() string {
	s.expectLobbyWrites()
	s.expectQuestions()
	code := s.create("p1")
	s.join(code, "p2")
	s.ready(code, "p1", "p2")
	_, err := s.service.StartGame(s.ctx, &StartGameInput{Code: code, PlayerID: "p1"})
	s.Require().NoError(err)
	return code
}

func (s *LobbyServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{})
	s.Equal(ErrNilLobbyRepo, err)

	_, err = New(&Config{LobbyRepo: s.mockLobbyRepo, QuestionRepo: s.mockQuestionRepo, DraftService: s.mockDraftService})
	s.Equal(ErrNilGameService, err)

	_, err = New(&Config{
		LobbyRepo:    s.mockLobbyRepo,
		QuestionRepo: s.mockQuestionRepo,
		DraftService: s.mockDraftService,
		GameService:  s.service.gameService,
		Emitter:      s.emitter,
		Clock:        s.clock,
		Random:       random.New(nil),
		MinPlayers:   4,
		MaxPlayers:   3,
	})
	s.Error(err)
}

func (s *LobbyServiceTestSuite) TestCreateLobby() {
	var stored *models.Lobby
	s.mockLobbyRepo.EXPECT().
		CreateLobby(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *lobbyRepo.CreateLobbyInput) error {
			stored = input.Lobby.Clone()
			return nil
		})

	out, err := s.service.CreateLobby(s.ctx, &CreateLobbyInput{HostID: "p1", HostName: "Ada", Character: "owl"})
	s.Require().NoError(err)

	l := out.Lobby
	s.Len(l.Code, CodeLength)
	for _, c := range l.Code {
		s.Contains(codeAlphabet, string(c))
	}
	s.Equal(stored.Code, l.Code)
	s.Equal("p1", l.HostID)
	s.Equal(models.LobbyStatusWaiting, l.Status)
	s.Equal(s.settings, l.Settings)
	s.Require().Len(l.Players, 1)
	s.Equal(&models.LobbyPlayer{ID: "p1", Name: "Ada", Character: "owl", Connected: true}, l.Players[0])

	updates := s.emitter.named(transport.EventLobbyUpdated)
	s.Require().Len(updates, 1)
	s.Equal(l.Code, updates[0].LobbyCode)
	s.Empty(updates[0].PlayerID)
}

func (s *LobbyServiceTestSuite) TestCreateLobbyRetriesTakenCode() {
	var codes []string
	gomock.InOrder(
		s.mockLobbyRepo.EXPECT().
			CreateLobby(s.ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, input *lobbyRepo.CreateLobbyInput) error {
				codes = append(codes, input.Lobby.Code)
				return lobbyRepo.ErrLobbyExists
			}),
		s.mockLobbyRepo.EXPECT().
			CreateLobby(s.ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, input *lobbyRepo.CreateLobbyInput) error {
				codes = append(codes, input.Lobby.Code)
				return nil
			}),
	)

	out, err := s.service.CreateLobby(s.ctx, &CreateLobbyInput{HostID: "p1"})
	s.Require().NoError(err)
	s.Require().Len(codes, 2)
	s.Equal(codes[1], out.Lobby.Code)
}

func (s *LobbyServiceTestSuite) TestCreateLobbyRejections() {
	_, err := s.service.CreateLobby(s.ctx, &CreateLobbyInput{})
	s.ErrorIs(err, ErrMissingPlayer)

	bad := s.settings
	bad.TimeLimit = time.Second
	_, err = s.service.CreateLobby(s.ctx, &CreateLobbyInput{HostID: "p1", Settings: &bad})
	s.ErrorIs(err, ErrInvalidSettings)

	s.mockLobbyRepo.EXPECT().CreateLobby(s.ctx, gomock.Any()).Return(errors.New("redis down"))
	_, err = s.service.CreateLobby(s.ctx, &CreateLobbyInput{HostID: "p1"})
	s.Error(err)
}

func (s *LobbyServiceTestSuite) TestJoinLobby() {
	s.expectLobbyWrites()
	code := s.create("p1")

	out, err := s.service.JoinLobby(s.ctx, &JoinLobbyInput{Code: " " + strings.ToLower(code), PlayerID: "p2", Name: "Bo"})
	s.Require().NoError(err)
	s.False(out.Rejoined)
	s.Len(out.Lobby.Players, 2)
	s.Equal("p1", out.Lobby.HostID)

	out, err = s.service.JoinLobby(s.ctx, &JoinLobbyInput{Code: code, PlayerID: "p2", Name: "Bo"})
	s.Require().NoError(err)
	s.True(out.Rejoined)
	s.Len(out.Lobby.Players, 2)
	s.Nil(out.Snapshot)

	_, err = s.service.JoinLobby(s.ctx, &JoinLobbyInput{Code: "ZZZZZZ", PlayerID: "p3"})
	s.ErrorIs(err, ErrLobbyNotFound)

	_, err = s.service.JoinLobby(s.ctx, &JoinLobbyInput{Code: code})
	s.ErrorIs(err, ErrMissingPlayer)
}

func (s *LobbyServiceTestSuite) TestJoinLobbyFull() {
	s.expectLobbyWrites()
	code := s.create("p1")
	s.join(code, "p2", "p3")

	_, err := s.service.JoinLobby(s.ctx, &JoinLobbyInput{Code: code, PlayerID: "p4"})
	s.ErrorIs(err, ErrLobbyFull)
	s.Len(s.lobby(code).Players, 3)
}

func (s *LobbyServiceTestSuite) TestConcurrentJoinsNeverOverfill() {
	s.expectLobbyWrites()
	code := s.create("p1")
	s.join(code, "p2")

	const joiners = 40
	errs := make([]error, joiners)
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.JoinLobby(s.ctx, &JoinLobbyInput{
				Code:     code,
				PlayerID: "joiner-" + strconv.Itoa(i),
			})
		}(i)
	}
	wg.Wait()

	joined := 0
	for _, err := range errs {
		if err == nil {
			joined++
			continue
		}
		s.ErrorIs(err, ErrLobbyFull)
	}
	s.Equal(1, joined)
	s.Len(s.lobby(code).Players, 3)
}

// A leave racing the host's start resolves one way or the other, never both
func (s *LobbyServiceTestSuite) TestLeaveRacingStart() {
	s.expectLobbyWrites()
	s.mockQuestionRepo.EXPECT().
		GetQuestions(gomock.Any(), gomock.Any()).
		Return(&question.GetQuestionsOutput{Questions: s.questions}, nil).
		AnyTimes()

	for round := 0; round < 10; round++ {
		code := s.create("p1")
		s.join(code, "p2")
		s.ready(code, "p1", "p2")

		var startErr, leaveErr error
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, startErr = s.service.StartGame(s.ctx, &StartGameInput{Code: code, PlayerID: "p1"})
		}()
		go func() {
			defer wg.Done()
			_, leaveErr = s.service.LeaveLobby(s.ctx, &LeaveLobbyInput{Code: code, PlayerID: "p2"})
		}()
		wg.Wait()

		s.Require().NoError(leaveErr)
		l := s.lobby(code)
		if startErr == nil {
			s.Equal(models.LobbyStatusPlaying, l.Status)
			s.Require().NotNil(l.Player("p2"))
			s.False(l.Player("p2").Connected)
			continue
		}
		s.ErrorIs(startErr, ErrNotEnoughPlayers)
		s.Equal(models.LobbyStatusWaiting, l.Status)
		s.Len(l.Players, 1)
		s.Empty(l.SessionID)
	}
}

func (s *LobbyServiceTestSuite) TestSetReadyWithPendingDraft() {
	s.expectLobbyWrites()
	code := s.create("p1")
	s.join(code, "p2")
	s.pending["p2"] = &models.UserPerkDraft{ID: "d1", UserID: "p2", Level: 2, OfferedPerkIDs: []string{"a", "b", "c"}}

	_, err := s.service.SetReady(s.ctx, &SetReadyInput{Code: code, PlayerID: "p2", Ready: true})
	s.ErrorIs(err, ErrDraftPending)

	out, err := s.service.SetReady(s.ctx, &SetReadyInput{Code: code, PlayerID: "p1", Ready: true})
	s.Require().NoError(err)
	s.True(out.Lobby.Player("p1").Ready)
	s.False(out.Lobby.Player("p2").Ready)

	_, err = s.service.SetReady(s.ctx, &SetReadyInput{Code: code, PlayerID: "p9", Ready: true})
	s.ErrorIs(err, ErrPlayerNotInLobby)
}

func (s *LobbyServiceTestSuite) TestUpdateSettingsResetsReady() {
	s.expectLobbyWrites()
	code := s.create("p1")
	s.join(code, "p2")
	s.ready(code, "p1", "p2")

	changed := s.settings
	changed.QuestionCount = 5

	_, err := s.service.UpdateSettings(s.ctx, &UpdateSettingsInput{Code: code, PlayerID: "p2", Settings: changed})
	s.ErrorIs(err, ErrNotHost)

	out, err := s.service.UpdateSettings(s.ctx, &UpdateSettingsInput{Code: code, PlayerID: "p1", Settings: changed})
	s.Require().NoError(err)
	s.Equal(5, out.Lobby.Settings.QuestionCount)
	for _, p := range out.Lobby.Players {
		s.False(p.Ready, p.ID)
	}

	changed.QuestionCount = MaxQuestionCount + 1
	_, err = s.service.UpdateSettings(s.ctx, &UpdateSettingsInput{Code: code, PlayerID: "p1", Settings: changed})
	s.ErrorIs(err, ErrInvalidSettings)
}

func (s *LobbyServiceTestSuite) TestStartGameChecks() {
	s.expectLobbyWrites()
	code := s.create("p1")

	_, err := s.service.StartGame(s.ctx, &StartGameInput{Code: code, PlayerID: "p1"})
	s.ErrorIs(err, ErrNotEnoughPlayers)

	s.join(code, "p2")
	_, err = s.service.StartGame(s.ctx, &StartGameInput{Code: code, PlayerID: "p2"})
	s.ErrorIs(err, ErrNotHost)

	s.ready(code, "p1")
	_, err = s.service.StartGame(s.ctx, &StartGameInput{Code: code, PlayerID: "p1"})
	s.ErrorIs(err, ErrNotAllReady)

	s.ready(code, "p2")
	s.mockQuestionRepo.EXPECT().
		GetQuestions(s.ctx, gomock.Any()).
		Return(nil, question.ErrNotEnoughQuestions)
	_, err = s.service.StartGame(s.ctx, &StartGameInput{Code: code, PlayerID: "p1"})
	s.ErrorIs(err, ErrQuestionsUnavailable)
	s.ErrorIs(err, question.ErrNotEnoughQuestions)

	l := s.lobby(code)
	s.Equal(models.LobbyStatusWaiting, l.Status)
	s.Empty(l.SessionID)
	s.Empty(s.emitter.named(transport.EventGameStarted))

	_, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{Code: code, PlayerID: "p1", Answer: 0})
	s.ErrorIs(err, ErrNotPlaying)
}

func (s *LobbyServiceTestSuite) TestFullGame() {
	code := s.startedGame()

	l := s.lobby(code)
	s.Equal(models.LobbyStatusPlaying, l.Status)
	s.Equal("session-1", l.SessionID)
	s.Len(s.emitter.named(transport.EventGameStarted), 1)
	s.Len(s.emitter.named(transport.EventQuestionStarted), 1)

	_, err := s.service.JoinLobby(s.ctx, &JoinLobbyInput{Code: code, PlayerID: "p3"})
	s.ErrorIs(err, ErrAlreadyStarted)

	out, err := s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{Code: code, PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)
	s.False(out.Revealed)
	out, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{Code: code, PlayerID: "p2", Answer: 2})
	s.Require().NoError(err)
	s.True(out.Revealed)
	s.Len(s.emitter.named(transport.EventQuestionRevealed), 1)

	s.clock.Advance(s.revealDelay)
	s.Equal(1, s.lobby(code).CurrentQuestion)
	s.Len(s.emitter.named(transport.EventQuestionStarted), 2)

	s.mockProgressRepo.EXPECT().InsertPlayerResults(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *progress.InsertPlayerResultsInput) error {
			s.Len(input.Results, 2)
			return nil
		})
	s.mockDraftService.EXPECT().AwardExperience(gomock.Any(), gomock.Any()).
		Return(&draft.AwardExperienceOutput{}, nil).Times(2)

	_, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{Code: code, PlayerID: "p1", Answer: 1})
	s.Require().NoError(err)
	_, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{Code: code, PlayerID: "p2", Answer: 1})
	s.Require().NoError(err)

	s.clock.Advance(s.revealDelay)
	l = s.lobby(code)
	s.Equal(models.LobbyStatusFinished, l.Status)
	s.Len(s.emitter.named(transport.EventGameFinished), 1)

	_, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{Code: code, PlayerID: "p1", Answer: 0})
	s.ErrorIs(err, ErrSessionEnded)

	s.mockLobbyRepo.EXPECT().DeleteLobby(gomock.Any(), &lobbyRepo.DeleteLobbyInput{Code: code}).Return(nil)
	s.clock.Advance(s.gracePeriod)
	_, err = s.service.GetLobby(s.ctx, &GetLobbyInput{Code: code})
	s.ErrorIs(err, ErrLobbyNotFound)
}

func (s *LobbyServiceTestSuite) TestPerksForwarded() {
	code := s.startedGame()

	_, err := s.service.UseEliminate(s.ctx, &UseEliminateInput{Code: code, PlayerID: "p1"})
	s.ErrorIs(err, game.ErrNoUsesRemaining)

	_, err = s.service.UseHint(s.ctx, &UseHintInput{Code: code, PlayerID: "p1"})
	s.ErrorIs(err, game.ErrNoHint)

	_, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{Code: code, PlayerID: "p9", Answer: 0})
	s.ErrorIs(err, game.ErrPlayerNotInSession)
}

func (s *LobbyServiceTestSuite) TestWaitingLobbyRemovedAfterGrace() {
	s.expectLobbyWrites()
	code := s.create("p1")

	out, err := s.service.Disconnect(s.ctx, &DisconnectInput{Code: code, PlayerID: "p1"})
	s.Require().NoError(err)
	s.False(out.Cancelled)
	s.Equal(1, s.clock.Pending())

	s.mockLobbyRepo.EXPECT().DeleteLobby(gomock.Any(), &lobbyRepo.DeleteLobbyInput{Code: code}).Return(nil)
	s.clock.Advance(s.gracePeriod)

	_, err = s.service.GetLobby(s.ctx, &GetLobbyInput{Code: code})
	s.ErrorIs(err, ErrLobbyNotFound)
}

func (s *LobbyServiceTestSuite) TestReconnectKeepsWaitingLobby() {
	s.expectLobbyWrites()
	code := s.create("p1")

	_, err := s.service.Disconnect(s.ctx, &DisconnectInput{Code: code, PlayerID: "p1"})
	s.Require().NoError(err)

	out, err := s.service.Reconnect(s.ctx, &ReconnectInput{Code: code, PlayerID: "p1"})
	s.Require().NoError(err)
	s.True(out.Lobby.Player("p1").Connected)
	s.Equal(0, s.clock.Pending())

	s.clock.Advance(s.gracePeriod)
	s.Equal(models.LobbyStatusWaiting, s.lobby(code).Status)

	reconnected := s.emitter.named(transport.EventReconnected)
	s.Require().Len(reconnected, 1)
	s.Equal("p1", reconnected[0].PlayerID)
}

func (s *LobbyServiceTestSuite) TestAllDisconnectedCancelsGame() {
	code := s.startedGame()

	out, err := s.service.Disconnect(s.ctx, &DisconnectInput{Code: code, PlayerID: "p1"})
	s.Require().NoError(err)
	s.False(out.Cancelled)

	out, err = s.service.Disconnect(s.ctx, &DisconnectInput{Code: code, PlayerID: "p2"})
	s.Require().NoError(err)
	s.True(out.Cancelled)
	s.Equal(models.LobbyStatusCancelled, s.lobby(code).Status)

	// the old deadline must not reveal anything
	s.clock.Advance(20 * time.Second)
	s.lobby(code)
	s.Empty(s.emitter.named(transport.EventQuestionRevealed))
	s.Empty(s.emitter.named(transport.EventGameFinished))

	_, err = s.service.Reconnect(s.ctx, &ReconnectInput{Code: code, PlayerID: "p1"})
	s.ErrorIs(err, ErrSessionEnded)

	s.mockLobbyRepo.EXPECT().DeleteLobby(gomock.Any(), &lobbyRepo.DeleteLobbyInput{Code: code}).Return(nil)
	s.clock.Advance(s.gracePeriod)
	_, err = s.service.GetLobby(s.ctx, &GetLobbyInput{Code: code})
	s.ErrorIs(err, ErrLobbyNotFound)
}

func (s *LobbyServiceTestSuite) TestReconnectDuringGameGetsSnapshot() {
	code := s.startedGame()

	_, err := s.service.Disconnect(s.ctx, &DisconnectInput{Code: code, PlayerID: "p2"})
	s.Require().NoError(err)

	s.clock.Advance(5 * time.Second)
	out, err := s.service.JoinLobby(s.ctx, &JoinLobbyInput{Code: code, PlayerID: "p2"})
	s.Require().NoError(err)
	s.True(out.Rejoined)
	s.Require().NotNil(out.Snapshot)
	s.Equal(0, out.Snapshot.CurrentQuestion)
	s.Equal(int64(15000), out.Snapshot.TimeRemainingMS)
}

func (s *LobbyServiceTestSuite) TestLeaveLobby() {
	s.expectLobbyWrites()
	code := s.create("p1")
	s.join(code, "p2")

	out, err := s.service.LeaveLobby(s.ctx, &LeaveLobbyInput{Code: code, PlayerID: "p1"})
	s.Require().NoError(err)
	s.False(out.Deleted)

	l := s.lobby(code)
	s.Equal("p2", l.HostID)
	s.Len(l.Players, 1)

	_, err = s.service.LeaveLobby(s.ctx, &LeaveLobbyInput{Code: code, PlayerID: "p1"})
	s.ErrorIs(err, ErrPlayerNotInLobby)

	s.mockLobbyRepo.EXPECT().DeleteLobby(gomock.Any(), &lobbyRepo.DeleteLobbyInput{Code: code}).Return(nil)
	out, err = s.service.LeaveLobby(s.ctx, &LeaveLobbyInput{Code: code, PlayerID: "p2"})
	s.Require().NoError(err)
	s.True(out.Deleted)

	_, err = s.service.GetLobby(s.ctx, &GetLobbyInput{Code: code})
	s.ErrorIs(err, ErrLobbyNotFound)
}

func (s *LobbyServiceTestSuite) TestLeaveDuringGameKeepsPlayer() {
	code := s.startedGame()

	out, err := s.service.LeaveLobby(s.ctx, &LeaveLobbyInput{Code: code, PlayerID: "p2"})
	s.Require().NoError(err)
	s.False(out.Deleted)

	l := s.lobby(code)
	s.Equal(models.LobbyStatusPlaying, l.Status)
	s.Require().NotNil(l.Player("p2"))
	s.False(l.Player("p2").Connected)

	// p1 is the only one left connected, so answering reveals
	answered, err := s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{Code: code, PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)
	s.True(answered.Revealed)
}

func (s *LobbyServiceTestSuite) TestLobbySaveFailureWarns() {
	s.mockLobbyRepo.EXPECT().CreateLobby(gomock.Any(), gomock.Any()).Return(nil)
	code := s.create("p1")

	s.mockLobbyRepo.EXPECT().SaveLobby(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
	out, err := s.service.JoinLobby(s.ctx, &JoinLobbyInput{Code: code, PlayerID: "p2"})
	s.Require().NoError(err)
	s.Len(out.Lobby.Players, 2)

	warnings := s.emitter.named(transport.EventPersistenceWarning)
	s.Require().Len(warnings, 1)
	s.Equal(code, warnings[0].LobbyCode)
}

func (s *LobbyServiceTestSuite) TestRestore() {
	waiting := &models.Lobby{
		Code:     "WAIT01",
		HostID:   "p1",
		Status:   models.LobbyStatusWaiting,
		Settings: s.settings,
		Players:  []*models.LobbyPlayer{{ID: "p1", Connected: true}},
	}
	playing := &models.Lobby{
		Code:      "PLAY01",
		HostID:    "p3",
		Status:    models.LobbyStatusPlaying,
		Settings:  s.settings,
		SessionID: "s-9",
		Players:   []*models.LobbyPlayer{{ID: "p3", Connected: true}, {ID: "p4", Connected: true}},
	}
	deadline := s.testTime.Add(-time.Minute)

	s.mockLobbyRepo.EXPECT().
		ListActiveLobbies(s.ctx, &lobbyRepo.ListActiveLobbiesInput{}).
		Return(&lobbyRepo.ListActiveLobbiesOutput{Lobbies: []*models.Lobby{waiting, playing}}, nil)
	s.mockLobbyRepo.EXPECT().
		GetSession(s.ctx, &lobbyRepo.GetSessionInput{SessionID: "s-9"}).
		Return(&models.GameSession{ID: "s-9", CurrentQuestion: 3, Deadline: deadline, Status: models.SessionStatusQuestionActive}, nil)
	s.mockLobbyRepo.EXPECT().
		UpdateSessionState(s.ctx, &lobbyRepo.UpdateSessionStateInput{
			SessionID:       "s-9",
			Status:          models.SessionStatusCancelled,
			CurrentQuestion: 3,
			Deadline:        deadline,
			EndedAt:         &s.testTime,
		}).Return(nil)
	s.mockLobbyRepo.EXPECT().
		SaveLobby(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *lobbyRepo.SaveLobbyInput) error {
			s.Equal("PLAY01", input.Lobby.Code)
			s.Equal(models.LobbyStatusCancelled, input.Lobby.Status)
			return nil
		})

	out, err := s.service.Restore(s.ctx, &RestoreInput{})
	s.Require().NoError(err)
	s.Equal(1, out.Restored)
	s.Equal(1, out.Cancelled)

	l := s.lobby("wait01")
	s.Equal(models.LobbyStatusWaiting, l.Status)
	s.False(l.Player("p1").Connected)

	_, err = s.service.JoinLobby(s.ctx, &JoinLobbyInput{Code: "PLAY01", PlayerID: "p3"})
	s.ErrorIs(err, ErrSessionEnded)

	s.mockLobbyRepo.EXPECT().DeleteLobby(gomock.Any(), &lobbyRepo.DeleteLobbyInput{Code: "WAIT01"}).Return(nil)
	s.mockLobbyRepo.EXPECT().DeleteLobby(gomock.Any(), &lobbyRepo.DeleteLobbyInput{Code: "PLAY01"}).Return(nil)
	s.clock.Advance(s.gracePeriod)

	_, err = s.service.GetLobby(s.ctx, &GetLobbyInput{Code: "WAIT01"})
	s.ErrorIs(err, ErrLobbyNotFound)
	_, err = s.service.GetLobby(s.ctx, &GetLobbyInput{Code: "PLAY01"})
	s.ErrorIs(err, ErrLobbyNotFound)
}

func (s *LobbyServiceTestSuite) TestShutdownCancelsRunningGames() {
	code := s.startedGame()

	s.Require().NoError(s.service.Shutdown(s.ctx))

	_, err := s.service.GetLobby(s.ctx, &GetLobbyInput{Code: code})
	s.ErrorIs(err, ErrLobbyNotFound)
	s.Equal(0, s.clock.Pending())
}
