package perks

// Defaults applied when a player owns no perk of a kind
const (
	DefaultBaseMultiplier = 1.0
	DefaultStreakGrowth   = 0.5
	DefaultMaxMultiplier  = 5.0
	DefaultTimerScale     = 1.0
	DefaultXPMultiplier   = 1.0
)

// Loadout is a player's resolved set of active effects for one session
type Loadout struct {
	// time
	BonusSeconds float64
	TimerScale   float64

	// info
	EliminateCount int
	EliminateUses  int
	HintUses       int

	// scoring
	MaxMultiplier        float64
	StreakGrowth         float64
	SpeedThreshold       *SpeedThreshold
	BaseScoreMultiplier  float64
	SpeedBonusMultiplier *SpeedBonusMultiplier
	Closer               *Closer
	PerfectGameBonus     int
	Mastery              *Mastery

	// recovery
	PartialCreditRate float64
	FreeWrongTokens   int
	FreeWrongRate     float64
	BaseMultiplier    float64
	BounceBackPercent float64
	Comeback          *Comeback
	Phoenix           *Phoenix

	// xp
	XPMultiplier float64
}

// NewLoadout returns the loadout of a player without perks
func NewLoadout() *Loadout {
	return &Loadout{
		TimerScale:          DefaultTimerScale,
		MaxMultiplier:       DefaultMaxMultiplier,
		StreakGrowth:        DefaultStreakGrowth,
		BaseScoreMultiplier: 1,
		BaseMultiplier:      DefaultBaseMultiplier,
		XPMultiplier:        DefaultXPMultiplier,
	}
}

// Resolve folds effects into a Loadout. Additive effects (seconds, uses,
// tokens, flat bonuses) sum, scaling effects multiply, and caps or rates
// keep the strongest value.
func Resolve(effects ...Effect) *Loadout {
	l := NewLoadout()
	for _, effect := range effects {
		switch e := effect.(type) {
		case BonusTime:
			l.BonusSeconds += e.Seconds
		case TimerScale:
			l.TimerScale *= e.Multiplier
		case Eliminate:
			l.EliminateCount = max(l.EliminateCount, e.Count)
			l.EliminateUses += e.Uses
		case Hint:
			l.HintUses += e.Uses
		case MaxStreak:
			l.MaxMultiplier = max(l.MaxMultiplier, e.Cap)
		case StreakGrowth:
			l.StreakGrowth = max(l.StreakGrowth, e.Rate)
		case SpeedThreshold:
			if l.SpeedThreshold == nil {
				cp := e
				l.SpeedThreshold = &cp
			} else {
				l.SpeedThreshold.Seconds = max(l.SpeedThreshold.Seconds, e.Seconds)
				l.SpeedThreshold.Bonus += e.Bonus
			}
		case BaseScoreMultiplier:
			l.BaseScoreMultiplier *= e.Multiplier
		case SpeedBonusMultiplier:
			if l.SpeedBonusMultiplier == nil {
				cp := e
				l.SpeedBonusMultiplier = &cp
			} else {
				l.SpeedBonusMultiplier.Multiplier *= e.Multiplier
				l.SpeedBonusMultiplier.MinTimeFraction = min(l.SpeedBonusMultiplier.MinTimeFraction, e.MinTimeFraction)
			}
		case Closer:
			if l.Closer == nil {
				cp := e
				l.Closer = &cp
			} else {
				l.Closer.LastQuestions = max(l.Closer.LastQuestions, e.LastQuestions)
				l.Closer.Percent += e.Percent
			}
		case PerfectGame:
			l.PerfectGameBonus += e.Bonus
		case Mastery:
			if l.Mastery == nil || e.Percent > l.Mastery.Percent {
				cp := e
				l.Mastery = &cp
			}
		case PartialCredit:
			l.PartialCreditRate = max(l.PartialCreditRate, e.Rate)
		case FreeWrong:
			l.FreeWrongTokens += e.Tokens
			l.FreeWrongRate = max(l.FreeWrongRate, e.Rate)
		case ResilientBase:
			l.BaseMultiplier = max(l.BaseMultiplier, e.Multiplier)
		case BounceBack:
			l.BounceBackPercent += e.Percent
		case Comeback:
			if l.Comeback == nil || e.Multiplier > l.Comeback.Multiplier {
				cp := e
				l.Comeback = &cp
			}
		case Phoenix:
			if l.Phoenix == nil || e.Multiplier > l.Phoenix.Multiplier {
				cp := e
				l.Phoenix = &cp
			}
		case XPMultiplier:
			l.XPMultiplier *= e.Multiplier
		default:
			// every Effect implementation above is handled; a new one must be added here
			panic("perks: unhandled effect " + string(effect.Type()))
		}
	}
	if l.BaseMultiplier > l.MaxMultiplier {
		l.BaseMultiplier = l.MaxMultiplier
	}
	return l
}
