package models

import "encoding/json"

// PerkCategory groups perks by the behavior they modify
type PerkCategory string

const (
	PerkCategoryTime     PerkCategory = "time"
	PerkCategoryInfo     PerkCategory = "info"
	PerkCategoryScoring  PerkCategory = "scoring"
	PerkCategoryRecovery PerkCategory = "recovery"
	PerkCategoryXP       PerkCategory = "xp"
)

// Perk is an immutable catalog entry
type Perk struct {
	// ID is the unique perk name, e.g. "fifty_fifty"
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	Category PerkCategory `json:"category"`

	// Tier gates draft eligibility by player level (1..3)
	Tier int `json:"tier"`

	// EffectType discriminates EffectConfig
	EffectType string `json:"effect_type"`

	// EffectConfig holds the typed parameters for EffectType
	EffectConfig json.RawMessage `json:"effect_config"`
}
