package perks

import (
	"encoding/json"

	"github.com/KirkDiggler/quizdraft/internal/models"
)

type seed struct {
	id     string
	name   string
	tier   int
	effect Effect
}

var defaultSeeds = []seed{
	// time
	{"extra_time", "Extra Time", 1, BonusTime{Seconds: 3}},
	{"time_warp", "Time Warp", 2, TimerScale{Multiplier: 0.8}},
	{"slow_motion", "Slow Motion", 3, TimerScale{Multiplier: 0.65}},

	// info
	{"fifty_fifty", "Fifty-Fifty", 1, Eliminate{Count: 1, Uses: 3}},
	{"hint_master", "Hint Master", 1, Hint{Uses: 3}},
	{"double_eliminate", "Double Eliminate", 2, Eliminate{Count: 2, Uses: 2}},

	// scoring
	{"quick_draw", "Quick Draw", 1, SpeedThreshold{Seconds: 3, Bonus: 100}},
	{"point_boost", "Point Boost", 1, BaseScoreMultiplier{Multiplier: 1.1}},
	{"streak_accelerator", "Streak Accelerator", 2, StreakGrowth{Rate: 0.75}},
	{"streak_master", "Streak Master", 2, MaxStreak{Cap: 6}},
	{"lightning_reflexes", "Lightning Reflexes", 2, SpeedBonusMultiplier{Multiplier: 1.25, MinTimeFraction: 0.75}},
	{"closer", "Closer", 2, Closer{LastQuestions: 3, Percent: 20}},
	{"perfectionist", "Perfectionist", 2, PerfectGame{Bonus: 500}},
	{"mega_streak", "Mega Streak", 3, MaxStreak{Cap: 7}},
	{"mastery", "Mastery", 3, Mastery{Accuracy: 0.8, Percent: 10}},

	// recovery
	{"partial_credit", "Partial Credit", 1, PartialCredit{Rate: 0.25}},
	{"safety_net", "Safety Net", 1, FreeWrong{Tokens: 1, Rate: 0.5}},
	{"bounce_back", "Bounce Back", 1, BounceBack{Percent: 25}},
	{"resilient", "Resilient", 2, ResilientBase{Multiplier: 1.5}},
	{"comeback_kid", "Comeback Kid", 2, Comeback{AccuracyBelow: 0.5, MinAnswered: 3, Multiplier: 1.5}},
	{"phoenix", "Phoenix", 3, Phoenix{ConsecutiveWrong: 3, Multiplier: 2}},

	// xp
	{"xp_boost", "XP Boost", 1, XPMultiplier{Multiplier: 1.25}},
	{"scholar", "Scholar", 2, XPMultiplier{Multiplier: 1.5}},
}

// DefaultPerks returns the seed catalog written to an empty perk table
func DefaultPerks() []*models.Perk {
	out := make([]*models.Perk, 0, len(defaultSeeds))
	for _, s := range defaultSeeds {
		raw, err := json.Marshal(s.effect)
		if err != nil {
			panic(err)
		}
		out = append(out, &models.Perk{
			ID:           s.id,
			Name:         s.name,
			Category:     s.effect.Category(),
			Tier:         s.tier,
			EffectType:   string(s.effect.Type()),
			EffectConfig: raw,
		})
	}
	return out
}
