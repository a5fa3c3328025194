package game

import (
	"context"
	"errors"
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
	"github.com/KirkDiggler/quizdraft/internal/services/draft"
	draftMocks "github.com/KirkDiggler/quizdraft/internal/services/draft/mocks"
	"github.com/KirkDiggler/quizdraft/internal/transport"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// recordingEmitter keeps every emitted event in order
type recordingEmitter struct {
	events []*transport.EmitInput
}

func (r *recordingEmitter) Emit(_ context.Context, input *transport.EmitInput) error {
	r.events = append(r.events, input)
	return nil
}

func (r *recordingEmitter) named(event string) []*transport.EmitInput {
	var out []*transport.EmitInput
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (r *recordingEmitter) last(event string) *transport.EmitInput {
	named := r.named(event)
	if len(named) == 0 {
		return nil
	}
	return named[len(named)-1]
}

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockSessionRepo  *lobbyMocks.MockRepository
	mockProgressRepo *progressMocks.MockRepository
	mockDraftService *draftMocks.MockService
	emitter          *recordingEmitter
	clock            *clock.Fake
	service          Service
	ctx              context.Context

	testTime    time.Time
	testCode    string
	timeLimit   time.Duration
	revealDelay time.Duration
	questions   []*models.Question
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockSessionRepo = lobbyMocks.NewMockRepository(s.mockCtrl)
	s.mockProgressRepo = progressMocks.NewMockRepository(s.mockCtrl)
	s.mockDraftService = draftMocks.NewMockService(s.mockCtrl)
	s.emitter = &recordingEmitter{}
	s.ctx = context.Background()

	s.testTime = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s.testCode = "ABC123"
	s.timeLimit = 20 * time.Second
	s.revealDelay = 3 * time.Second
	s.clock = clock.NewFake(s.testTime)

	s.questions = []*models.Question{
		{ID: "q0", Text: "Capital of France?", Options: []string{"Paris", "Lyon", "Nice", "Lille"}, CorrectIndex: 0, Hint: "City of light"},
		{ID: "q1", Text: "2 + 2?", Options: []string{"3", "4", "5", "22"}, CorrectIndex: 1, Hint: "Even"},
		{ID: "q2", Text: "Largest planet?", Options: []string{"Mars", "Venus", "Jupiter", "Earth"}, CorrectIndex: 2},
		{ID: "q3", Text: "H2O is?", Options: []string{"Salt", "Water", "Air", "Gold"}, CorrectIndex: 1},
		{ID: "q4", Text: "Fastest land animal?", Options: []string{"Cheetah", "Horse", "Lion", "Hare"}, CorrectIndex: 0},
	}

	svc, err := New(&Config{
		SessionRepo:  s.mockSessionRepo,
		ProgressRepo: s.mockProgressRepo,
		DraftService: s.mockDraftService,
		Emitter:      s.emitter,
		Clock:        s.clock,
		UUID:         &uuid.Sequence{Prefix: "id"},
		Random:       random.New(&random.Config{Seed: 7}),
		RevealDelay:  s.revealDelay,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *GameServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestGameServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

func (s *GameServiceTestSuite) expectSessionWrites() {
	s.mockSessionRepo.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockSessionRepo.EXPECT().UpdateSessionState(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func player(id string, l *perks.Loadout) *PlayerInput {
	return &PlayerInput{ID: id, Name: "Player " + id, Loadout: l, Connected: true}
}

func syncDispatch(f func()) { f() }

func (s *GameServiceTestSuite) begin(questions []*models.Question, players ...*PlayerInput) Session {
	out, err := s.service.Begin(s.ctx, &BeginInput{
		LobbyCode:     s.testCode,
		QuestionSetID: "general",
		Questions:     questions,
		TimeLimit:     s.timeLimit,
		Players:       players,
		Dispatch:      syncDispatch,
	})
	s.Require().NoError(err)
	return out.Session
}

func (s *GameServiceTestSuite) lastReveal() *QuestionRevealedPayload {
	e := s.emitter.last(transport.EventQuestionRevealed)
	s.Require().NotNil(e)
	return e.Payload.(*QuestionRevealedPayload)
}

func resultFor(payload *QuestionRevealedPayload, playerID string) *RevealResult {
	for i := range payload.Results {
		if payload.Results[i].PlayerID == playerID {
			return &payload.Results[i]
		}
	}
	return nil
}

func (s *GameServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{})
	s.Equal(ErrNilSessionRepo, err)

	_, err = New(&Config{SessionRepo: s.mockSessionRepo, ProgressRepo: s.mockProgressRepo})
	s.Equal(ErrNilDraftService, err)

	_, err = New(&Config{
		SessionRepo:  s.mockSessionRepo,
		ProgressRepo: s.mockProgressRepo,
		DraftService: s.mockDraftService,
		Emitter:      s.emitter,
		Clock:        s.clock,
		UUID:         uuid.New(),
	})
	s.Equal(ErrNilRandom, err)
}

func (s *GameServiceTestSuite) TestBeginValidation() {
	_, err := s.service.Begin(s.ctx, &BeginInput{Players: []*PlayerInput{player("p1", nil)}, TimeLimit: s.timeLimit, Dispatch: syncDispatch})
	s.ErrorIs(err, ErrNoQuestions)

	_, err = s.service.Begin(s.ctx, &BeginInput{Questions: s.questions, TimeLimit: s.timeLimit, Dispatch: syncDispatch})
	s.ErrorIs(err, ErrNoPlayers)

	_, err = s.service.Begin(s.ctx, &BeginInput{Questions: s.questions, Players: []*PlayerInput{player("p1", nil)}, Dispatch: syncDispatch})
	s.ErrorIs(err, ErrInvalidTimeLimit)

	_, err = s.service.Begin(s.ctx, &BeginInput{Questions: s.questions, Players: []*PlayerInput{player("p1", nil)}, TimeLimit: s.timeLimit})
	s.Equal(ErrNilDispatch, err)
}

func (s *GameServiceTestSuite) TestBeginOpensFirstQuestion() {
	var created *models.GameSession
	s.mockSessionRepo.EXPECT().
		CreateSession(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *lobbyRepo.CreateSessionInput) error {
			created = input.Session
			return nil
		})
	s.mockSessionRepo.EXPECT().
		UpdateSessionState(gomock.Any(), &lobbyRepo.UpdateSessionStateInput{
			SessionID:       "id-1",
			Status:          models.SessionStatusQuestionActive,
			CurrentQuestion: 0,
			Deadline:        s.testTime.Add(s.timeLimit),
		}).
		Return(nil)

	sess := s.begin(s.questions, player("p1", nil), player("p2", perks.Resolve(perks.BonusTime{Seconds: 3})))

	s.Require().NotNil(created)
	s.Equal("id-1", created.ID)
	s.Equal(s.testCode, created.LobbyCode)
	s.Equal(models.SessionStatusStarting, created.Status)
	s.Equal(len(s.questions), created.TotalQuestions)

	s.Equal(models.SessionStatusQuestionActive, sess.Status())
	s.Equal(0, sess.CurrentQuestion())
	s.Equal(1, s.clock.Pending())

	started := s.emitter.last(transport.EventGameStarted)
	s.Require().NotNil(started)
	s.Equal([]string{"p1", "p2"}, started.Payload.(*GameStartedPayload).PlayerIDs)

	qs := s.emitter.last(transport.EventQuestionStarted)
	s.Require().NotNil(qs)
	s.Empty(qs.PlayerID)
	payload := qs.Payload.(*QuestionStartedPayload)
	s.Equal("q0", payload.Question.ID)
	s.Equal(s.testTime.Add(s.timeLimit), payload.Deadline)
	s.Equal(20.0, payload.Windows["p1"].FloorAfterSeconds)
	s.Equal(20.0, payload.Windows["p2"].FloorAfterSeconds)
	s.Equal(3.0, payload.Windows["p2"].BonusSeconds)
}

// Two players, no perks: a correct answer at 20% elapsed and a wrong one
func (s *GameServiceTestSuite) TestFirstQuestionCorrectAndWrong() {
	s.expectSessionWrites()
	sess := s.begin(s.questions[:3], player("p1", nil), player("p2", nil))

	s.clock.Advance(4 * time.Second)
	out, err := sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)
	s.False(out.Revealed)

	accepted := s.emitter.last(transport.EventAnswerAccepted)
	s.Require().NotNil(accepted)
	s.Equal("p1", accepted.PlayerID)

	out, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p2", Answer: 2})
	s.Require().NoError(err)
	s.True(out.Revealed)
	s.Equal(models.SessionStatusQuestionReveal, sess.Status())

	reveal := s.lastReveal()
	s.Equal(0, reveal.CorrectIndex)

	p1 := resultFor(reveal, "p1")
	s.Require().NotNil(p1)
	s.True(p1.IsCorrect)
	s.Equal(900, p1.PointsEarned)
	s.Equal(1, p1.Streak)
	s.Equal(1.0, p1.Multiplier)

	p2 := resultFor(reveal, "p2")
	s.Require().NotNil(p2)
	s.False(p2.IsCorrect)
	s.Equal(0, p2.PointsEarned)
	s.Equal(0, p2.Streak)

	s.Equal("p1", reveal.Standings[0].PlayerID)
}

func (s *GameServiceTestSuite) TestDuplicateAnswerRejected() {
	s.expectSessionWrites()
	sess := s.begin(s.questions, player("p1", nil), player("p2", nil))

	_, err := sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)

	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 1})
	s.ErrorIs(err, ErrDuplicateAnswer)

	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p2", Answer: 9})
	s.ErrorIs(err, ErrInvalidAnswer)

	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "stranger", Answer: 0})
	s.ErrorIs(err, ErrPlayerNotInSession)

	s.Len(s.emitter.named(transport.EventAnswerAccepted), 1)
	s.Equal(models.SessionStatusQuestionActive, sess.Status())
}

// The deadline callback is queued behind an answer submitted exactly at the
// deadline: the answer counts, a later one does not, and the queued callback
// reveals once.
func (s *GameServiceTestSuite) TestDeadlineRace() {
	s.expectSessionWrites()

	var queue []func()
	out, err := s.service.Begin(s.ctx, &BeginInput{
		LobbyCode: s.testCode,
		Questions: s.questions,
		TimeLimit: s.timeLimit,
		Players:   []*PlayerInput{player("p1", nil), player("p2", nil)},
		Dispatch:  func(f func()) { queue = append(queue, f) },
	})
	s.Require().NoError(err)
	sess := out.Session

	s.clock.Advance(s.timeLimit)
	s.Require().Len(queue, 1)

	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)

	s.clock.Advance(time.Millisecond)
	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p2", Answer: 0})
	s.ErrorIs(err, ErrQuestionClosed)

	deadline := queue[0]
	deadline()
	s.Equal(models.SessionStatusQuestionReveal, sess.Status())

	reveal := s.lastReveal()
	p1 := resultFor(reveal, "p1")
	s.Require().NotNil(p1)
	s.True(p1.IsCorrect)
	s.Equal(500, p1.PointsEarned)

	p2 := resultFor(reveal, "p2")
	s.Require().NotNil(p2)
	s.True(p2.TimedOut)
	s.Equal(-1, p2.SelectedAnswer)

	// a stale fire is a no-op
	deadline()
	s.Len(s.emitter.named(transport.EventQuestionRevealed), 1)
}

func (s *GameServiceTestSuite) TestEarlyRevealCancelsDeadline() {
	s.expectSessionWrites()
	sess := s.begin(s.questions, player("p1", nil), player("p2", nil))

	_, err := sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)
	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p2", Answer: 0})
	s.Require().NoError(err)

	// only the reveal delay is pending
	s.Equal(1, s.clock.Pending())

	s.clock.Advance(s.revealDelay)
	s.Equal(models.SessionStatusQuestionActive, sess.Status())
	s.Equal(1, sess.CurrentQuestion())
	s.Len(s.emitter.named(transport.EventQuestionStarted), 2)

	// the first question's deadline passing changes nothing
	s.clock.Advance(s.timeLimit - s.revealDelay - time.Second)
	s.Equal(models.SessionStatusQuestionActive, sess.Status())
	s.Len(s.emitter.named(transport.EventQuestionRevealed), 1)
}

func (s *GameServiceTestSuite) TestTimeoutAndDisconnectedPlayer() {
	s.expectSessionWrites()
	sess := s.begin(s.questions, player("p1", nil), player("p2", nil), player("p3", nil))

	_, err := sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)

	// p2 and p3 let q0 time out, then p3 drops on the next question
	s.clock.Advance(s.timeLimit)
	s.clock.Advance(s.revealDelay)
	s.Equal(1, sess.CurrentQuestion())

	disc, err := sess.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p3"})
	s.Require().NoError(err)
	s.Equal(2, disc.Connected)

	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 1})
	s.Require().NoError(err)
	s.clock.Advance(s.timeLimit)

	reveal := s.lastReveal()
	s.Equal(1, reveal.Index)
	s.Len(reveal.Results, 2)
	s.NotNil(resultFor(reveal, "p1"))
	p2 := resultFor(reveal, "p2")
	s.Require().NotNil(p2)
	s.True(p2.TimedOut)
	s.Nil(resultFor(reveal, "p3"))

	snap, err := sess.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p3"})
	s.Require().NoError(err)
	s.Len(snap.Snapshot.Answers, 1, "only the first question was scored for p3")
	s.True(snap.Snapshot.Answers[0].TimedOut)
}

func (s *GameServiceTestSuite) TestDisconnectRevealsWhenRestAnswered() {
	s.expectSessionWrites()
	sess := s.begin(s.questions, player("p1", nil), player("p2", nil))

	_, err := sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)
	s.Equal(models.SessionStatusQuestionActive, sess.Status())

	out, err := sess.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p2"})
	s.Require().NoError(err)
	s.Equal(1, out.Connected)
	s.Equal(models.SessionStatusQuestionReveal, sess.Status())

	reveal := s.lastReveal()
	s.Len(reveal.Results, 1)
	s.Equal("p1", reveal.Results[0].PlayerID)
}

// fifty_fifty has three uses; the fourth request is refused
func (s *GameServiceTestSuite) TestEliminateUsesExhausted() {
	s.expectSessionWrites()
	loadout := perks.Resolve(perks.Eliminate{Count: 1, Uses: 3})
	sess := s.begin(s.questions, player("p1", loadout))

	for i := 0; i < 3; i++ {
		s.Require().Equal(i, sess.CurrentQuestion())
		q := s.questions[i]

		out, err := sess.UseEliminate(s.ctx, &UseEliminateInput{PlayerID: "p1"})
		s.Require().NoError(err)
		s.Require().Len(out.Eliminated, 1)
		s.NotEqual(q.CorrectIndex, out.Eliminated[0])
		s.Equal(2-i, out.UsesLeft)

		_, err = sess.UseEliminate(s.ctx, &UseEliminateInput{PlayerID: "p1"})
		s.ErrorIs(err, ErrAlreadyEliminated)

		_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: q.CorrectIndex})
		s.Require().NoError(err)
		s.clock.Advance(s.revealDelay)
	}

	s.Equal(3, sess.CurrentQuestion())
	_, err := sess.UseEliminate(s.ctx, &UseEliminateInput{PlayerID: "p1"})
	s.ErrorIs(err, ErrNoUsesRemaining)

	snap, err := sess.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Equal(0, snap.Snapshot.EliminateLeft)
	s.Empty(snap.Snapshot.Eliminated)

	results := s.emitter.named(transport.EventEliminateResult)
	s.Len(results, 3)
	for _, r := range results {
		s.Equal("p1", r.PlayerID)
	}
}

func (s *GameServiceTestSuite) TestEliminateRequiresPerk() {
	s.expectSessionWrites()
	sess := s.begin(s.questions, player("p1", nil))

	_, err := sess.UseEliminate(s.ctx, &UseEliminateInput{PlayerID: "p1"})
	s.ErrorIs(err, ErrNoUsesRemaining)
}

func (s *GameServiceTestSuite) TestUseHint() {
	s.expectSessionWrites()
	sess := s.begin(s.questions, player("p1", perks.Resolve(perks.Hint{Uses: 1})))

	out, err := sess.UseHint(s.ctx, &UseHintInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Equal("City of light", out.Hint)
	s.Equal(0, out.UsesLeft)

	// asking again on the same question is free
	out, err = sess.UseHint(s.ctx, &UseHintInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Equal("City of light", out.Hint)

	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)
	s.clock.Advance(s.revealDelay)

	_, err = sess.UseHint(s.ctx, &UseHintInput{PlayerID: "p1"})
	s.ErrorIs(err, ErrNoUsesRemaining)

	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 1})
	s.Require().NoError(err)
	_, err = sess.UseHint(s.ctx, &UseHintInput{PlayerID: "p1"})
	s.ErrorIs(err, ErrQuestionClosed)

	s.clock.Advance(s.revealDelay)
	_, err = sess.UseHint(s.ctx, &UseHintInput{PlayerID: "p1"})
	s.ErrorIs(err, ErrNoHint)
}

func (s *GameServiceTestSuite) TestFinishWritesResultsAndOffersDraft() {
	s.expectSessionWrites()

	var saved []*models.PlayerResult
	s.mockProgressRepo.EXPECT().
		InsertPlayerResults(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *progress.InsertPlayerResultsInput) error {
			saved = input.Results
			return nil
		})

	chosen := "extra_time"
	s.mockDraftService.EXPECT().
		AwardExperience(gomock.Any(), &draft.AwardExperienceInput{UserID: "p1", XP: 225}).
		Return(&draft.AwardExperienceOutput{
			Before:      4900,
			After:       5125,
			LevelBefore: 4,
			LevelAfter:  5,
			Drafts: []*models.UserPerkDraft{
				{ID: "d4", Level: 4, OfferedPerkIDs: []string{"extra_time"}, ChosenPerkID: &chosen},
				{ID: "d5", Level: 5, OfferedPerkIDs: []string{"quick_draw", "xp_boost", "safety_net"}},
			},
		}, nil)

	var finished Session
	out, err := s.service.Begin(s.ctx, &BeginInput{
		LobbyCode:  s.testCode,
		Questions:  s.questions[:2],
		TimeLimit:  s.timeLimit,
		Players:    []*PlayerInput{player("p1", nil)},
		Dispatch:   syncDispatch,
		OnFinished: func(sess Session) { finished = sess },
	})
	s.Require().NoError(err)
	sess := out.Session

	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)
	s.clock.Advance(s.revealDelay)
	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 1})
	s.Require().NoError(err)

	// drafts are offered only once the game is over
	s.Empty(s.emitter.named(transport.EventDraftOffered))
	s.Nil(finished)

	s.clock.Advance(s.revealDelay)
	s.Equal(models.SessionStatusFinished, sess.Status())
	s.Same(sess, finished)
	s.Equal(0, s.clock.Pending())

	s.Require().Len(saved, 1)
	s.Equal("p1", saved[0].UserID)
	s.Equal(sess.ID(), saved[0].SessionID)
	s.Equal(2500, saved[0].FinalScore)
	s.Equal(2, saved[0].CorrectAnswers)
	s.Equal(1.5, saved[0].MaxMultiplier)
	s.Equal(int64(225), saved[0].XPEarned)
	s.Len(saved[0].Answers, 2)

	gf := s.emitter.last(transport.EventGameFinished)
	s.Require().NotNil(gf)
	standings := gf.Payload.(*GameFinishedPayload).Standings
	s.Require().Len(standings, 1)
	s.Equal(2500, standings[0].Score)

	offered := s.emitter.named(transport.EventDraftOffered)
	s.Require().Len(offered, 1)
	s.Equal("p1", offered[0].PlayerID)
	payload := offered[0].Payload.(*DraftOfferedPayload)
	s.Equal(5, payload.Level)
	s.Len(payload.OfferedPerkIDs, 3)

	_, err = sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.ErrorIs(err, ErrSessionEnded)
}

func (s *GameServiceTestSuite) TestPersistenceFailuresWarnAndContinue() {
	s.mockSessionRepo.EXPECT().
		CreateSession(gomock.Any(), gomock.Any()).
		Return(errors.New("redis down"))
	s.mockSessionRepo.EXPECT().UpdateSessionState(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockProgressRepo.EXPECT().
		InsertPlayerResults(gomock.Any(), gomock.Any()).
		Return(errors.New("database is locked"))
	s.mockDraftService.EXPECT().
		AwardExperience(gomock.Any(), gomock.Any()).
		Return(&draft.AwardExperienceOutput{}, nil)

	sess := s.begin(s.questions[:1], player("p1", nil))
	s.Len(s.emitter.named(transport.EventPersistenceWarning), 1)
	s.NotNil(s.emitter.last(transport.EventQuestionStarted))

	_, err := sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)
	s.clock.Advance(s.revealDelay)

	s.Equal(models.SessionStatusFinished, sess.Status())
	warnings := s.emitter.named(transport.EventPersistenceWarning)
	s.Require().Len(warnings, 2)
	s.Equal("save results", warnings[1].Payload.(*PersistenceWarningPayload).Operation)
	s.NotNil(s.emitter.last(transport.EventGameFinished))
}

func (s *GameServiceTestSuite) TestCancelStopsEverything() {
	s.expectSessionWrites()
	sess := s.begin(s.questions, player("p1", nil), player("p2", nil))
	emitted := len(s.emitter.events)

	s.Require().NoError(sess.Cancel(s.ctx, &CancelInput{}))
	s.Equal(models.SessionStatusCancelled, sess.Status())
	s.Equal(0, s.clock.Pending())

	s.clock.Advance(time.Minute)
	s.Len(s.emitter.events, emitted)

	_, err := sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.ErrorIs(err, ErrSessionEnded)
	_, err = sess.UseHint(s.ctx, &UseHintInput{PlayerID: "p1"})
	s.ErrorIs(err, ErrSessionEnded)

	// cancelling twice is harmless
	s.NoError(sess.Cancel(s.ctx, &CancelInput{}))
}

func (s *GameServiceTestSuite) TestReconnectSnapshot() {
	s.expectSessionWrites()
	sess := s.begin(s.questions, player("p1", nil), player("p2", nil))

	_, err := sess.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p2"})
	s.Require().NoError(err)
	s.clock.Advance(5 * time.Second)

	out, err := sess.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p2"})
	s.Require().NoError(err)
	snap := out.Snapshot
	s.Equal(sess.ID(), snap.SessionID)
	s.Equal(models.SessionStatusQuestionActive, snap.Status)
	s.Equal(0, snap.CurrentQuestion)
	s.Equal(int64(15000), snap.TimeRemainingMS)
	s.Require().NotNil(snap.Question)
	s.Equal("q0", snap.Question.ID)
	s.False(snap.Submitted)

	// p2 counts again: p1 answering alone no longer reveals
	out2, err := sess.SubmitAnswer(s.ctx, &SubmitAnswerInput{PlayerID: "p1", Answer: 0})
	s.Require().NoError(err)
	s.False(out2.Revealed)

	_, err = sess.Reconnect(s.ctx, &ReconnectInput{PlayerID: "nobody"})
	s.ErrorIs(err, ErrPlayerNotInSession)
}
