package game

import (
	"context"
	"sort"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/common/clock"
	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/random"
	"github.com/KirkDiggler/quizdraft/internal/repositories/lobby"
	"github.com/KirkDiggler/quizdraft/internal/repositories/progress"
	"github.com/KirkDiggler/quizdraft/internal/scoring"
	"github.com/KirkDiggler/quizdraft/internal/services/draft"
	"github.com/KirkDiggler/quizdraft/internal/transport"
)

// session implements the Session interface
type session struct {
	svc *service
	ctx context.Context

	model         models.GameSession
	questions     []*models.Question
	timeLimit     time.Duration
	questionStart time.Time

	// players keeps roster order for reveal and tie-breaks
	players []*PlayerRun
	byID    map[string]*PlayerRun

	// timer is the pending deadline or reveal-delay callback
	timer clock.Timer

	dispatch   func(f func())
	onFinished func(session Session)
}

func (s *session) ID() string {
	return s.model.ID
}

func (s *session) Status() models.SessionStatus {
	return s.model.Status
}

func (s *session) CurrentQuestion() int {
	return s.model.CurrentQuestion
}

// SubmitAnswer accepts one answer per player per question while the question
// is active and the deadline has not passed. The answer completing the
// question reveals it immediately.
func (s *session) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	if s.model.Status.IsEnded() {
		return nil, ErrSessionEnded
	}
	p, ok := s.byID[input.PlayerID]
	if !ok {
		return nil, ErrPlayerNotInSession
	}

	now := s.svc.clock.Now()
	if s.model.Status != models.SessionStatusQuestionActive || now.After(s.model.Deadline) {
		return nil, ErrQuestionClosed
	}
	if p.submitted {
		return nil, ErrDuplicateAnswer
	}
	q := s.questions[s.model.CurrentQuestion]
	if input.Answer < 0 || input.Answer >= len(q.Options) {
		return nil, ErrInvalidAnswer
	}

	p.submitted = true
	p.selected = input.Answer
	p.submittedAt = now

	idx := s.model.CurrentQuestion
	s.emit(ctx, p.ID, transport.EventAnswerAccepted, &AnswerAcceptedPayload{Index: idx})

	out := &SubmitAnswerOutput{QuestionIndex: idx}
	if s.allConnectedSubmitted() {
		s.reveal(ctx)
		out.Revealed = true
	}
	return out, nil
}

// UseEliminate strikes wrong options from the active question. One use covers
// one question; the number of options struck comes from the loadout, and at
// least one wrong option always remains.
func (s *session) UseEliminate(ctx context.Context, input *UseEliminateInput) (*UseEliminateOutput, error) {
	p, q, err := s.activePlayer(input.PlayerID)
	if err != nil {
		return nil, err
	}
	if p.submitted {
		return nil, ErrAlreadyAnswered
	}
	if len(p.eliminated) > 0 {
		return nil, ErrAlreadyEliminated
	}
	if p.EliminateLeft <= 0 {
		return nil, ErrNoUsesRemaining
	}

	wrong := make([]int, 0, len(q.Options))
	for i := range q.Options {
		if i != q.CorrectIndex {
			wrong = append(wrong, i)
		}
	}
	count := min(p.Loadout.EliminateCount, len(wrong)-1)
	if count <= 0 {
		return nil, ErrNothingToEliminate
	}

	picked := random.Sample(s.svc.random, wrong, count)
	sort.Ints(picked)
	p.eliminated = picked
	p.EliminateLeft--

	out := &UseEliminateOutput{
		QuestionIndex: s.model.CurrentQuestion,
		Eliminated:    append([]int(nil), picked...),
		UsesLeft:      p.EliminateLeft,
	}
	s.emit(ctx, p.ID, transport.EventEliminateResult, &EliminateResultPayload{
		Index:      out.QuestionIndex,
		Eliminated: out.Eliminated,
		UsesLeft:   out.UsesLeft,
	})
	return out, nil
}

// UseHint shows the hint of the active question. Asking again on the same
// question repeats the hint without spending another use.
func (s *session) UseHint(ctx context.Context, input *UseHintInput) (*UseHintOutput, error) {
	p, q, err := s.activePlayer(input.PlayerID)
	if err != nil {
		return nil, err
	}
	if p.submitted {
		return nil, ErrAlreadyAnswered
	}
	if q.Hint == "" {
		return nil, ErrNoHint
	}
	if !p.hinted {
		if p.HintLeft <= 0 {
			return nil, ErrNoUsesRemaining
		}
		p.HintLeft--
		p.hinted = true
	}

	out := &UseHintOutput{
		QuestionIndex: s.model.CurrentQuestion,
		Hint:          q.Hint,
		UsesLeft:      p.HintLeft,
	}
	s.emit(ctx, p.ID, transport.EventHintResult, &HintResultPayload{
		Index:    out.QuestionIndex,
		Hint:     out.Hint,
		UsesLeft: out.UsesLeft,
	})
	return out, nil
}

// Disconnect marks a player as gone. A disconnected player is not waited for:
// if everyone still connected has answered, the question reveals now.
func (s *session) Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error) {
	p, ok := s.byID[input.PlayerID]
	if !ok {
		return nil, ErrPlayerNotInSession
	}
	p.Connected = false

	out := &DisconnectOutput{Connected: s.connectedCount()}
	if s.model.Status == models.SessionStatusQuestionActive && s.allConnectedSubmitted() {
		s.reveal(ctx)
	}
	return out, nil
}

// Reconnect marks a player as back and returns a snapshot to resume from
func (s *session) Reconnect(ctx context.Context, input *ReconnectInput) (*ReconnectOutput, error) {
	p, ok := s.byID[input.PlayerID]
	if !ok {
		return nil, ErrPlayerNotInSession
	}
	p.Connected = true

	return &ReconnectOutput{Snapshot: s.snapshot(p)}, nil
}

// Cancel stops the session without writing results or emitting events
func (s *session) Cancel(ctx context.Context, input *CancelInput) error {
	if s.model.Status.IsEnded() {
		return nil
	}
	s.stopTimer()

	now := s.svc.clock.Now()
	s.model.Status = models.SessionStatusCancelled
	s.model.EndedAt = &now

	// nobody is listening any more, so a failed write is only logged
	err := s.svc.sessionRepo.UpdateSessionState(ctx, &lobby.UpdateSessionStateInput{
		SessionID:       s.model.ID,
		Status:          s.model.Status,
		CurrentQuestion: s.model.CurrentQuestion,
		Deadline:        s.model.Deadline,
		EndedAt:         s.model.EndedAt,
	})
	if err != nil {
		s.svc.logger.Error("persistence failed",
			"lobby_code", s.model.LobbyCode,
			"session_id", s.model.ID,
			"operation", "cancel session",
			"error", err,
		)
	}

	s.svc.logger.Info("game cancelled",
		"lobby_code", s.model.LobbyCode,
		"session_id", s.model.ID,
		"question", s.model.CurrentQuestion,
	)
	return nil
}

func (s *session) activePlayer(playerID string) (*PlayerRun, *models.Question, error) {
	if s.model.Status.IsEnded() {
		return nil, nil, ErrSessionEnded
	}
	p, ok := s.byID[playerID]
	if !ok {
		return nil, nil, ErrPlayerNotInSession
	}
	if s.model.Status != models.SessionStatusQuestionActive || s.svc.clock.Now().After(s.model.Deadline) {
		return nil, nil, ErrQuestionClosed
	}
	return p, s.questions[s.model.CurrentQuestion], nil
}

// openQuestion makes question idx active. The deadline does not depend on
// perks; time perks only change how elapsed time is scored.
func (s *session) openQuestion(ctx context.Context, idx int) {
	s.stopTimer()

	now := s.svc.clock.Now()
	s.model.Status = models.SessionStatusQuestionActive
	s.model.CurrentQuestion = idx
	s.model.Deadline = now.Add(s.timeLimit)
	s.questionStart = now

	windows := make(map[string]ScoringWindow, len(s.players))
	for _, p := range s.players {
		p.submitted = false
		p.selected = -1
		p.submittedAt = time.Time{}
		p.eliminated = nil
		p.hinted = false
		windows[p.ID] = s.scoringWindow(p)
	}

	s.schedule(s.timeLimit, func() { s.onDeadline(idx) })
	s.persistState(ctx)

	s.emit(ctx, "", transport.EventQuestionStarted, &QuestionStartedPayload{
		Index:          idx,
		TotalQuestions: len(s.questions),
		Question:       s.questions[idx].Public(),
		Deadline:       s.model.Deadline,
		TimeLimitMS:    s.timeLimit.Milliseconds(),
		Windows:        windows,
	})
}

func (s *session) onDeadline(idx int) {
	if s.model.Status != models.SessionStatusQuestionActive || s.model.CurrentQuestion != idx {
		return
	}
	s.reveal(s.ctx)
}

// reveal scores every submission and every connected player who let the
// deadline pass. Disconnected players without an answer are skipped and
// keep their run state.
func (s *session) reveal(ctx context.Context) {
	s.stopTimer()

	idx := s.model.CurrentQuestion
	q := s.questions[idx]
	s.model.Status = models.SessionStatusQuestionReveal

	results := make([]RevealResult, 0, len(s.players))
	for _, p := range s.players {
		if !p.submitted && !p.Connected {
			continue
		}
		outcome := scoring.Score(scoring.Input{
			CorrectIndex:   q.CorrectIndex,
			Answered:       p.submitted,
			SelectedAnswer: p.selected,
			SubmittedAt:    p.submittedAt,
			QuestionStart:  s.questionStart,
			Deadline:       s.model.Deadline,
			QuestionIndex:  idx,
			TotalQuestions: len(s.questions),
			State:          p.State,
			Loadout:        p.Loadout,
		})
		p.State = outcome.State
		p.CompletionTime += outcome.Elapsed

		selected := -1
		if p.submitted {
			selected = p.selected
		}
		p.Answers = append(p.Answers, models.AnswerDetail{
			QuestionID:     q.ID,
			SelectedAnswer: selected,
			IsCorrect:      outcome.IsCorrect,
			TimedOut:       !p.submitted,
			TimeElapsed:    outcome.Elapsed,
			PointsEarned:   outcome.Points,
			MultiplierUsed: outcome.Multiplier,
		})
		results = append(results, RevealResult{
			PlayerID:       p.ID,
			SelectedAnswer: selected,
			IsCorrect:      outcome.IsCorrect,
			TimedOut:       !p.submitted,
			PointsEarned:   outcome.Points,
			MultiplierUsed: outcome.Multiplier,
			Streak:         outcome.NewStreak,
			Multiplier:     outcome.NewMultiplier,
			Score:          p.State.Score,
			Effects:        outcome.Effects,
		})
	}

	s.schedule(s.svc.revealDelay, func() { s.afterReveal(idx) })
	s.persistState(ctx)

	s.emit(ctx, "", transport.EventQuestionRevealed, &QuestionRevealedPayload{
		Index:        idx,
		CorrectIndex: q.CorrectIndex,
		Results:      results,
		Standings:    s.standings(nil),
	})
}

func (s *session) afterReveal(idx int) {
	if s.model.Status != models.SessionStatusQuestionReveal || s.model.CurrentQuestion != idx {
		return
	}
	if idx+1 < len(s.questions) {
		s.openQuestion(s.ctx, idx+1)
		return
	}
	s.finish(s.ctx)
}

// finish applies the final bonuses, writes results, announces standings and
// then awards experience, which may offer drafts.
func (s *session) finish(ctx context.Context) {
	s.stopTimer()

	now := s.svc.clock.Now()
	s.model.Status = models.SessionStatusFinished
	s.model.EndedAt = &now

	total := len(s.questions)
	finals := make(map[string]scoring.Final, len(s.players))
	results := make([]*models.PlayerResult, 0, len(s.players))
	for _, p := range s.players {
		final := scoring.FinalBonus(p.State, p.Loadout, total)
		finals[p.ID] = final
		results = append(results, &models.PlayerResult{
			ID:             s.svc.uuid.NewUUID(),
			SessionID:      s.model.ID,
			UserID:         p.ID,
			FinalScore:     final.FinalScore,
			CorrectAnswers: p.State.Correct,
			TotalQuestions: total,
			MaxMultiplier:  p.State.MaxMultiplier,
			CompletionTime: p.CompletionTime,
			PerfectBonus:   final.PerfectBonus,
			MasteryBonus:   final.MasteryBonus,
			XPEarned:       final.XP,
			Answers:        append([]models.AnswerDetail(nil), p.Answers...),
			CreatedAt:      now,
		})
	}

	if err := s.svc.progressRepo.InsertPlayerResults(ctx, &progress.InsertPlayerResultsInput{Results: results}); err != nil {
		s.warn(ctx, "save results", err)
	}
	s.persistState(ctx)

	s.svc.logger.Info("game finished",
		"lobby_code", s.model.LobbyCode,
		"session_id", s.model.ID,
	)

	s.emit(ctx, "", transport.EventGameFinished, &GameFinishedPayload{
		SessionID: s.model.ID,
		Standings: s.standings(finals),
	})

	for _, r := range results {
		if r.XPEarned <= 0 {
			continue
		}
		awarded, err := s.svc.draftService.AwardExperience(ctx, &draft.AwardExperienceInput{
			UserID: r.UserID,
			XP:     r.XPEarned,
		})
		if err != nil {
			s.warn(ctx, "award experience", err)
			continue
		}
		for _, d := range awarded.Drafts {
			if d.Resolved() {
				continue
			}
			s.emit(ctx, r.UserID, transport.EventDraftOffered, &DraftOfferedPayload{
				DraftID:        d.ID,
				Level:          d.Level,
				OfferedPerkIDs: d.OfferedPerkIDs,
			})
		}
	}

	if s.onFinished != nil {
		s.onFinished(s)
	}
}

// standings orders players by score, then correct answers, then roster order.
// With finals, scores include the end-of-game bonuses.
func (s *session) standings(finals map[string]scoring.Final) []Standing {
	out := make([]Standing, 0, len(s.players))
	for _, p := range s.players {
		st := Standing{
			PlayerID:      p.ID,
			Name:          p.Name,
			Score:         p.State.Score,
			Correct:       p.State.Correct,
			MaxMultiplier: p.State.MaxMultiplier,
		}
		if f, ok := finals[p.ID]; ok {
			st.Score = f.FinalScore
			st.PerfectBonus = f.PerfectBonus
			st.MasteryBonus = f.MasteryBonus
			st.XPEarned = f.XP
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Correct > out[j].Correct
	})
	return out
}

func (s *session) snapshot(p *PlayerRun) *Snapshot {
	snap := &Snapshot{
		SessionID:       s.model.ID,
		Status:          s.model.Status,
		CurrentQuestion: s.model.CurrentQuestion,
		TotalQuestions:  len(s.questions),
		Deadline:        s.model.Deadline,
		Submitted:       p.submitted,
		Eliminated:      append([]int(nil), p.eliminated...),
		Score:           p.State.Score,
		Streak:          p.State.Streak,
		Multiplier:      p.State.Multiplier,
		EliminateLeft:   p.EliminateLeft,
		HintLeft:        p.HintLeft,
		Answers:         append([]models.AnswerDetail(nil), p.Answers...),
		Standings:       s.standings(nil),
	}
	if s.model.Status == models.SessionStatusQuestionActive {
		snap.Question = s.questions[s.model.CurrentQuestion].Public()
		if remaining := s.model.Deadline.Sub(s.svc.clock.Now()); remaining > 0 {
			snap.TimeRemainingMS = remaining.Milliseconds()
		}
	}
	return snap
}

func (s *session) scoringWindow(p *PlayerRun) ScoringWindow {
	limit := s.timeLimit.Seconds()
	w := ScoringWindow{
		BonusSeconds:      p.Loadout.BonusSeconds,
		TimerScale:        p.Loadout.TimerScale,
		FloorAfterSeconds: limit,
	}
	if p.Loadout.TimerScale > 0 {
		w.FloorAfterSeconds = min(limit, limit/p.Loadout.TimerScale+p.Loadout.BonusSeconds)
	}
	return w
}

func (s *session) allConnectedSubmitted() bool {
	connected := 0
	for _, p := range s.players {
		if !p.Connected {
			continue
		}
		connected++
		if !p.submitted {
			return false
		}
	}
	return connected > 0
}

func (s *session) connectedCount() int {
	n := 0
	for _, p := range s.players {
		if p.Connected {
			n++
		}
	}
	return n
}

// schedule replaces the pending timer. The callback runs through dispatch so
// it is serialized with every other call on the session.
func (s *session) schedule(d time.Duration, f func()) {
	s.stopTimer()
	s.timer = s.svc.clock.AfterFunc(d, func() { s.dispatch(f) })
}

func (s *session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *session) persistState(ctx context.Context) {
	err := s.svc.sessionRepo.UpdateSessionState(ctx, &lobby.UpdateSessionStateInput{
		SessionID:       s.model.ID,
		Status:          s.model.Status,
		CurrentQuestion: s.model.CurrentQuestion,
		Deadline:        s.model.Deadline,
		EndedAt:         s.model.EndedAt,
	})
	if err != nil {
		s.warn(ctx, "update session", err)
	}
}

// warn logs a persistence failure and tells the lobby; the game goes on
func (s *session) warn(ctx context.Context, op string, err error) {
	s.svc.logger.Error("persistence failed",
		"lobby_code", s.model.LobbyCode,
		"session_id", s.model.ID,
		"operation", op,
		"error", err,
	)
	s.emit(ctx, "", transport.EventPersistenceWarning, &PersistenceWarningPayload{
		Operation: op,
		Message:   "progress from this game may not be saved",
	})
}

func (s *session) emit(ctx context.Context, playerID, event string, payload any) {
	err := s.svc.emitter.Emit(ctx, &transport.EmitInput{
		LobbyCode: s.model.LobbyCode,
		PlayerID:  playerID,
		Event:     event,
		Payload:   payload,
	})
	if err != nil {
		s.svc.logger.Warn("failed to emit event",
			"lobby_code", s.model.LobbyCode,
			"event", event,
			"error", err,
		)
	}
}
