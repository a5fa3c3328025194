package draft

// XPPerLevelStep scales the triangular level curve
const XPPerLevelStep = 500

// Levels at which perk tiers 2 and 3 unlock
const (
	Tier2Level = 10
	Tier3Level = 20
)

// XPForLevel returns the total experience needed to reach level
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	l := int64(level)
	return XPPerLevelStep * l * (l - 1) / 2
}

// LevelForXP returns the level reached with xp total experience
func LevelForXP(xp int64) int {
	level := 1
	for XPForLevel(level+1) <= xp {
		level++
	}
	return level
}

// MaxTierForLevel returns the highest perk tier a level may be offered
func MaxTierForLevel(level int) int {
	switch {
	case level >= Tier3Level:
		return 3
	case level >= Tier2Level:
		return 2
	default:
		return 1
	}
}
