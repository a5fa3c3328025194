package perks

import (
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/quizdraft/internal/models"
)

// EffectType is the persisted discriminator of a perk's effect
type EffectType string

const (
	EffectBonusTime            EffectType = "bonus_time"
	EffectTimerScale           EffectType = "timer_scale"
	EffectEliminate            EffectType = "eliminate"
	EffectHint                 EffectType = "hint"
	EffectMaxStreak            EffectType = "max_streak"
	EffectStreakGrowth         EffectType = "streak_growth"
	EffectSpeedThreshold       EffectType = "speed_threshold"
	EffectBaseScoreMultiplier  EffectType = "base_score_multiplier"
	EffectSpeedBonusMultiplier EffectType = "speed_bonus_multiplier"
	EffectCloser               EffectType = "closer"
	EffectPerfectGame          EffectType = "perfect_game"
	EffectMastery              EffectType = "mastery"
	EffectPartialCredit        EffectType = "partial_credit"
	EffectFreeWrong            EffectType = "free_wrong"
	EffectResilientBase        EffectType = "resilient_base"
	EffectBounceBack           EffectType = "bounce_back"
	EffectComeback             EffectType = "comeback"
	EffectPhoenix              EffectType = "phoenix"
	EffectXPMultiplier         EffectType = "xp_multiplier"
)

// Effect is one typed perk effect. The set of implementations is closed:
// only this package can add one.
type Effect interface {
	Category() models.PerkCategory
	Type() EffectType
	validate() error
}

// BonusTime subtracts Seconds from the elapsed time used for scoring
type BonusTime struct {
	Seconds float64 `json:"seconds"`
}

// TimerScale multiplies the elapsed time used for scoring; < 1 slows time down
type TimerScale struct {
	Multiplier float64 `json:"multiplier"`
}

// Eliminate removes Count wrong options, Uses times per game
type Eliminate struct {
	Count int `json:"count"`
	Uses  int `json:"uses"`
}

// Hint reveals the question hint, Uses times per game
type Hint struct {
	Uses int `json:"uses"`
}

// MaxStreak raises the streak multiplier cap
type MaxStreak struct {
	Cap float64 `json:"cap"`
}

// StreakGrowth replaces the per-correct-answer multiplier increment
type StreakGrowth struct {
	Rate float64 `json:"rate"`
}

// SpeedThreshold pays a flat Bonus when a correct answer lands within Seconds
type SpeedThreshold struct {
	Seconds float64 `json:"seconds"`
	Bonus   int     `json:"bonus"`
}

// BaseScoreMultiplier scales every correct answer
type BaseScoreMultiplier struct {
	Multiplier float64 `json:"multiplier"`
}

// SpeedBonusMultiplier scales correct answers given while at least
// MinTimeFraction of the window remained
type SpeedBonusMultiplier struct {
	Multiplier      float64 `json:"multiplier"`
	MinTimeFraction float64 `json:"min_time_fraction"`
}

// Closer uplifts points by Percent on the last LastQuestions questions
type Closer struct {
	LastQuestions int     `json:"last_questions"`
	Percent       float64 `json:"percent"`
}

// PerfectGame pays Bonus at the end of a session with no wrong answers
type PerfectGame struct {
	Bonus int `json:"bonus"`
}

// Mastery uplifts the final score by Percent when accuracy reaches Accuracy
type Mastery struct {
	Accuracy float64 `json:"accuracy"`
	Percent  float64 `json:"percent"`
}

// PartialCredit pays Rate of the base score for a wrong answer
type PartialCredit struct {
	Rate float64 `json:"rate"`
}

// FreeWrong grants Tokens wrong answers that keep the streak and pay Rate
type FreeWrong struct {
	Tokens int     `json:"tokens"`
	Rate   float64 `json:"rate"`
}

// ResilientBase sets the multiplier a streak resets to
type ResilientBase struct {
	Multiplier float64 `json:"multiplier"`
}

// BounceBack uplifts a correct answer that follows a wrong one
type BounceBack struct {
	Percent float64 `json:"percent"`
}

// Comeback multiplies a correct answer while accuracy is below AccuracyBelow
// after at least MinAnswered answers
type Comeback struct {
	AccuracyBelow float64 `json:"accuracy_below"`
	MinAnswered   int     `json:"min_answered"`
	Multiplier    float64 `json:"multiplier"`
}

// Phoenix multiplies the first correct answer after ConsecutiveWrong misses
type Phoenix struct {
	ConsecutiveWrong int     `json:"consecutive_wrong"`
	Multiplier       float64 `json:"multiplier"`
}

// XPMultiplier scales experience earned at the end of a session
type XPMultiplier struct {
	Multiplier float64 `json:"multiplier"`
}

func (BonusTime) Category() models.PerkCategory            { return models.PerkCategoryTime }
func (TimerScale) Category() models.PerkCategory           { return models.PerkCategoryTime }
func (Eliminate) Category() models.PerkCategory            { return models.PerkCategoryInfo }
func (Hint) Category() models.PerkCategory                 { return models.PerkCategoryInfo }
func (MaxStreak) Category() models.PerkCategory            { return models.PerkCategoryScoring }
func (StreakGrowth) Category() models.PerkCategory         { return models.PerkCategoryScoring }
func (SpeedThreshold) Category() models.PerkCategory       { return models.PerkCategoryScoring }
func (BaseScoreMultiplier) Category() models.PerkCategory  { return models.PerkCategoryScoring }
func (SpeedBonusMultiplier) Category() models.PerkCategory { return models.PerkCategoryScoring }
func (Closer) Category() models.PerkCategory               { return models.PerkCategoryScoring }
func (PerfectGame) Category() models.PerkCategory          { return models.PerkCategoryScoring }
func (Mastery) Category() models.PerkCategory              { return models.PerkCategoryScoring }
func (PartialCredit) Category() models.PerkCategory        { return models.PerkCategoryRecovery }
func (FreeWrong) Category() models.PerkCategory            { return models.PerkCategoryRecovery }
func (ResilientBase) Category() models.PerkCategory        { return models.PerkCategoryRecovery }
func (BounceBack) Category() models.PerkCategory           { return models.PerkCategoryRecovery }
func (Comeback) Category() models.PerkCategory             { return models.PerkCategoryRecovery }
func (Phoenix) Category() models.PerkCategory              { return models.PerkCategoryRecovery }
func (XPMultiplier) Category() models.PerkCategory         { return models.PerkCategoryXP }

func (BonusTime) Type() EffectType            { return EffectBonusTime }
func (TimerScale) Type() EffectType           { return EffectTimerScale }
func (Eliminate) Type() EffectType            { return EffectEliminate }
func (Hint) Type() EffectType                 { return EffectHint }
func (MaxStreak) Type() EffectType            { return EffectMaxStreak }
func (StreakGrowth) Type() EffectType         { return EffectStreakGrowth }
func (SpeedThreshold) Type() EffectType       { return EffectSpeedThreshold }
func (BaseScoreMultiplier) Type() EffectType  { return EffectBaseScoreMultiplier }
func (SpeedBonusMultiplier) Type() EffectType { return EffectSpeedBonusMultiplier }
func (Closer) Type() EffectType               { return EffectCloser }
func (PerfectGame) Type() EffectType          { return EffectPerfectGame }
func (Mastery) Type() EffectType              { return EffectMastery }
func (PartialCredit) Type() EffectType        { return EffectPartialCredit }
func (FreeWrong) Type() EffectType            { return EffectFreeWrong }
func (ResilientBase) Type() EffectType        { return EffectResilientBase }
func (BounceBack) Type() EffectType           { return EffectBounceBack }
func (Comeback) Type() EffectType             { return EffectComeback }
func (Phoenix) Type() EffectType              { return EffectPhoenix }
func (XPMultiplier) Type() EffectType         { return EffectXPMultiplier }

func (e BonusTime) validate() error {
	return positive("seconds", e.Seconds)
}

func (e TimerScale) validate() error {
	return positive("multiplier", e.Multiplier)
}

func (e Eliminate) validate() error {
	if e.Count < 1 || e.Uses < 1 {
		return fmt.Errorf("count and uses must be at least 1")
	}
	return nil
}

func (e Hint) validate() error {
	if e.Uses < 1 {
		return fmt.Errorf("uses must be at least 1")
	}
	return nil
}

func (e MaxStreak) validate() error {
	if e.Cap < 1 {
		return fmt.Errorf("cap must be at least 1")
	}
	return nil
}

func (e StreakGrowth) validate() error {
	return positive("rate", e.Rate)
}

func (e SpeedThreshold) validate() error {
	if err := positive("seconds", e.Seconds); err != nil {
		return err
	}
	if e.Bonus < 1 {
		return fmt.Errorf("bonus must be at least 1")
	}
	return nil
}

func (e BaseScoreMultiplier) validate() error {
	return positive("multiplier", e.Multiplier)
}

func (e SpeedBonusMultiplier) validate() error {
	if err := positive("multiplier", e.Multiplier); err != nil {
		return err
	}
	return fraction("min_time_fraction", e.MinTimeFraction)
}

func (e Closer) validate() error {
	if e.LastQuestions < 1 {
		return fmt.Errorf("last_questions must be at least 1")
	}
	return positive("percent", e.Percent)
}

func (e PerfectGame) validate() error {
	if e.Bonus < 1 {
		return fmt.Errorf("bonus must be at least 1")
	}
	return nil
}

func (e Mastery) validate() error {
	if err := fraction("accuracy", e.Accuracy); err != nil {
		return err
	}
	return positive("percent", e.Percent)
}

func (e PartialCredit) validate() error {
	return fraction("rate", e.Rate)
}

func (e FreeWrong) validate() error {
	if e.Tokens < 1 {
		return fmt.Errorf("tokens must be at least 1")
	}
	return fraction("rate", e.Rate)
}

func (e ResilientBase) validate() error {
	if e.Multiplier < 1 {
		return fmt.Errorf("multiplier must be at least 1")
	}
	return nil
}

func (e BounceBack) validate() error {
	return positive("percent", e.Percent)
}

func (e Comeback) validate() error {
	if err := fraction("accuracy_below", e.AccuracyBelow); err != nil {
		return err
	}
	if e.MinAnswered < 1 {
		return fmt.Errorf("min_answered must be at least 1")
	}
	return positive("multiplier", e.Multiplier)
}

func (e Phoenix) validate() error {
	if e.ConsecutiveWrong < 1 {
		return fmt.Errorf("consecutive_wrong must be at least 1")
	}
	return positive("multiplier", e.Multiplier)
}

func (e XPMultiplier) validate() error {
	return positive("multiplier", e.Multiplier)
}

func positive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

func fraction(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be within [0, 1]", name)
	}
	return nil
}

// DecodeEffect parses a persisted effect configuration into its typed form.
// This is the only place effect types are handled as strings.
func DecodeEffect(effectType string, raw json.RawMessage) (Effect, error) {
	var effect Effect
	var err error
	switch EffectType(effectType) {
	case EffectBonusTime:
		effect, err = decode[BonusTime](raw)
	case EffectTimerScale:
		effect, err = decode[TimerScale](raw)
	case EffectEliminate:
		effect, err = decode[Eliminate](raw)
	case EffectHint:
		effect, err = decode[Hint](raw)
	case EffectMaxStreak:
		effect, err = decode[MaxStreak](raw)
	case EffectStreakGrowth:
		effect, err = decode[StreakGrowth](raw)
	case EffectSpeedThreshold:
		effect, err = decode[SpeedThreshold](raw)
	case EffectBaseScoreMultiplier:
		effect, err = decode[BaseScoreMultiplier](raw)
	case EffectSpeedBonusMultiplier:
		effect, err = decode[SpeedBonusMultiplier](raw)
	case EffectCloser:
		effect, err = decode[Closer](raw)
	case EffectPerfectGame:
		effect, err = decode[PerfectGame](raw)
	case EffectMastery:
		effect, err = decode[Mastery](raw)
	case EffectPartialCredit:
		effect, err = decode[PartialCredit](raw)
	case EffectFreeWrong:
		effect, err = decode[FreeWrong](raw)
	case EffectResilientBase:
		effect, err = decode[ResilientBase](raw)
	case EffectBounceBack:
		effect, err = decode[BounceBack](raw)
	case EffectComeback:
		effect, err = decode[Comeback](raw)
	case EffectPhoenix:
		effect, err = decode[Phoenix](raw)
	case EffectXPMultiplier:
		effect, err = decode[XPMultiplier](raw)
	default:
		return nil, fmt.Errorf("unknown effect type %q", effectType)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", effectType, err)
	}
	if err := effect.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", effectType, err)
	}
	return effect, nil
}

func decode[T Effect](raw json.RawMessage) (Effect, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeEffect returns the persisted form of e
func EncodeEffect(e Effect) (string, json.RawMessage, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", e.Type(), err)
	}
	return string(e.Type()), raw, nil
}
