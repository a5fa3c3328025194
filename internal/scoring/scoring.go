// Package scoring computes the points and run-state changes of a single
// answer under a player's resolved perk loadout. Every function here is pure:
// the same input always yields the same outcome, and no clock or random
// source is consulted.
package scoring

import (
	"math"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/perks"
)

const (
	// BasePoints is the base score of an instant correct answer
	BasePoints = 1000

	// FloorFraction is the share of BasePoints still paid at the buzzer
	FloorFraction = 0.5

	// XPPerCorrect is the experience granted per correct answer
	XPPerCorrect = 50

	// ScorePerXP converts final score into experience
	ScorePerXP = 20
)

// SideEffect names a perk or rule that fired while scoring
type SideEffect string

const (
	SideEffectFreeWrongConsumed SideEffect = "free_wrong_consumed"
	SideEffectPartialCredit     SideEffect = "partial_credit"
	SideEffectStreakReset       SideEffect = "streak_reset"
	SideEffectSpeedThreshold    SideEffect = "speed_threshold"
	SideEffectSpeedMultiplier   SideEffect = "speed_multiplier"
	SideEffectBounceBack        SideEffect = "bounce_back"
	SideEffectComeback          SideEffect = "comeback"
	SideEffectPhoenixArmed      SideEffect = "phoenix_armed"
	SideEffectPhoenix           SideEffect = "phoenix"
	SideEffectCloser            SideEffect = "closer"
	SideEffectTimedOut          SideEffect = "timed_out"
)

// RunState is the scoring-relevant part of a player's session progress
type RunState struct {
	Score            int     `json:"score"`
	Streak           int     `json:"streak"`
	Multiplier       float64 `json:"multiplier"`
	MaxMultiplier    float64 `json:"max_multiplier"`
	Correct          int     `json:"correct"`
	Answered         int     `json:"answered"`
	ConsecutiveWrong int     `json:"consecutive_wrong"`
	LastWrong        bool    `json:"last_wrong"`
	FreeWrongLeft    int     `json:"free_wrong_left"`
	PhoenixArmed     bool    `json:"phoenix_armed"`
	ComebackUsed     bool    `json:"comeback_used"`
}

// NewRunState returns the session-start state for a loadout
func NewRunState(l *perks.Loadout) RunState {
	if l == nil {
		l = perks.NewLoadout()
	}
	return RunState{
		Multiplier:    l.BaseMultiplier,
		MaxMultiplier: l.BaseMultiplier,
		FreeWrongLeft: l.FreeWrongTokens,
	}
}

// Accuracy returns correct/answered, or 1 before the first answer
func (s RunState) Accuracy() float64 {
	if s.Answered == 0 {
		return 1
	}
	return float64(s.Correct) / float64(s.Answered)
}

// Input holds every fact Score depends on
type Input struct {
	CorrectIndex int

	// Answered is false when the player let the deadline pass
	Answered       bool
	SelectedAnswer int
	SubmittedAt    time.Time

	QuestionStart  time.Time
	Deadline       time.Time
	QuestionIndex  int
	TotalQuestions int

	State   RunState
	Loadout *perks.Loadout
}

// Outcome is the result of scoring one answer
type Outcome struct {
	Points           int
	IsCorrect        bool
	Elapsed          time.Duration
	EffectiveElapsed time.Duration
	TimeFraction     float64
	BaseScore        int

	// Multiplier is the streak multiplier applied to this answer's points
	Multiplier    float64
	NewStreak     int
	NewMultiplier float64
	State         RunState
	Effects       []SideEffect
}

// BaseScore converts the remaining time fraction into the time-weighted base
func BaseScore(timeFraction float64) int {
	return int(math.Round(BasePoints * (FloorFraction + (1-FloorFraction)*clamp01(timeFraction))))
}

// Score computes the outcome of a single answer
func Score(in Input) Outcome {
	l := in.Loadout
	if l == nil {
		l = perks.NewLoadout()
	}
	st := in.State
	out := Outcome{}

	timeLimit := in.Deadline.Sub(in.QuestionStart)
	elapsed := timeLimit
	if in.Answered {
		elapsed = in.SubmittedAt.Sub(in.QuestionStart)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	effective := elapsed.Seconds() - l.BonusSeconds
	if effective < 0 {
		effective = 0
	}
	effective *= l.TimerScale

	fraction := 0.0
	if timeLimit > 0 {
		fraction = clamp01(1 - effective/timeLimit.Seconds())
	}
	base := BaseScore(fraction)

	out.Elapsed = elapsed
	out.EffectiveElapsed = time.Duration(effective * float64(time.Second))
	out.TimeFraction = fraction
	out.BaseScore = base
	out.IsCorrect = in.Answered && in.SelectedAnswer == in.CorrectIndex

	accuracyBefore := st.Accuracy()
	answeredBefore := st.Answered
	st.Answered++

	var points float64
	switch {
	case out.IsCorrect:
		st.Correct++
		st.Streak++
		if st.Streak > 1 {
			st.Multiplier += l.StreakGrowth
		}
		st.Multiplier = math.Min(st.Multiplier, l.MaxMultiplier)
		out.Multiplier = st.Multiplier

		points = float64(base) * st.Multiplier * l.BaseScoreMultiplier
		if sb := l.SpeedBonusMultiplier; sb != nil && fraction >= sb.MinTimeFraction {
			points *= sb.Multiplier
			out.Effects = append(out.Effects, SideEffectSpeedMultiplier)
		}
		if th := l.SpeedThreshold; th != nil && effective < th.Seconds {
			points += float64(th.Bonus)
			out.Effects = append(out.Effects, SideEffectSpeedThreshold)
		}
		if st.LastWrong && l.BounceBackPercent > 0 {
			points *= 1 + l.BounceBackPercent/100
			out.Effects = append(out.Effects, SideEffectBounceBack)
		}
		if cb := l.Comeback; cb != nil && !st.ComebackUsed &&
			answeredBefore >= cb.MinAnswered && accuracyBefore < cb.AccuracyBelow {
			points *= cb.Multiplier
			st.ComebackUsed = true
			out.Effects = append(out.Effects, SideEffectComeback)
		}
		if l.Phoenix != nil && st.PhoenixArmed {
			points *= l.Phoenix.Multiplier
			st.PhoenixArmed = false
			out.Effects = append(out.Effects, SideEffectPhoenix)
		}
		st.ConsecutiveWrong = 0
		st.LastWrong = false

	case in.Answered && st.FreeWrongLeft > 0:
		// free-wrong tokens take priority over partial credit
		st.FreeWrongLeft--
		out.Multiplier = st.Multiplier
		points = float64(base) * st.Multiplier * l.FreeWrongRate
		out.Effects = append(out.Effects, SideEffectFreeWrongConsumed)

	default:
		if !in.Answered {
			out.Effects = append(out.Effects, SideEffectTimedOut)
		} else if l.PartialCreditRate > 0 {
			points = float64(base) * l.PartialCreditRate
			out.Multiplier = 1
			out.Effects = append(out.Effects, SideEffectPartialCredit)
		}
		if st.Streak > 0 || st.Multiplier != l.BaseMultiplier {
			out.Effects = append(out.Effects, SideEffectStreakReset)
		}
		st.Streak = 0
		st.Multiplier = l.BaseMultiplier
		st.ConsecutiveWrong++
		st.LastWrong = true
		if ph := l.Phoenix; ph != nil && !st.PhoenixArmed && st.ConsecutiveWrong >= ph.ConsecutiveWrong {
			st.PhoenixArmed = true
			out.Effects = append(out.Effects, SideEffectPhoenixArmed)
		}
	}

	// comeback re-arms once accuracy recovers above its threshold
	if cb := l.Comeback; cb != nil && st.ComebackUsed && st.Accuracy() >= cb.AccuracyBelow {
		st.ComebackUsed = false
	}

	if c := l.Closer; c != nil && points > 0 && in.TotalQuestions > 0 &&
		in.QuestionIndex >= in.TotalQuestions-c.LastQuestions {
		points *= 1 + c.Percent/100
		out.Effects = append(out.Effects, SideEffectCloser)
	}

	out.Points = int(math.Round(points))
	if out.Points < 0 {
		out.Points = 0
	}
	st.Score += out.Points
	st.MaxMultiplier = math.Max(st.MaxMultiplier, st.Multiplier)

	out.NewStreak = st.Streak
	out.NewMultiplier = st.Multiplier
	out.State = st
	return out
}

// Final holds the bonuses applied when a session finishes
type Final struct {
	PerfectBonus int
	MasteryBonus int
	FinalScore   int
	XP           int64
}

// FinalBonus applies perfect-game and mastery bonuses and converts the
// final score into experience
func FinalBonus(st RunState, l *perks.Loadout, totalQuestions int) Final {
	if l == nil {
		l = perks.NewLoadout()
	}
	f := Final{FinalScore: st.Score}
	if totalQuestions > 0 {
		if l.PerfectGameBonus > 0 && st.Correct == totalQuestions {
			f.PerfectBonus = l.PerfectGameBonus
		}
		if m := l.Mastery; m != nil && float64(st.Correct)/float64(totalQuestions) >= m.Accuracy {
			f.MasteryBonus = int(math.Round(float64(st.Score) * m.Percent / 100))
		}
	}
	f.FinalScore += f.PerfectBonus + f.MasteryBonus

	xp := float64(st.Correct*XPPerCorrect) + float64(f.FinalScore)/ScorePerXP
	f.XP = int64(math.Round(xp * l.XPMultiplier))
	return f
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
