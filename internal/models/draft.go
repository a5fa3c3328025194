package models

import "time"

// UserPerkDraft is the per-level offer a player resolves exactly once
type UserPerkDraft struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Level          int        `json:"level"`
	OfferedPerkIDs []string   `json:"offered_perk_ids"`
	ChosenPerkID   *string    `json:"chosen_perk_id"`
	Dumped         bool       `json:"dumped"`
	DraftedAt      time.Time  `json:"drafted_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

// Resolved returns true once a perk was chosen or the offer was dumped
func (d *UserPerkDraft) Resolved() bool {
	return d.ChosenPerkID != nil || d.Dumped
}

// Offers returns true if perkID is among the offered perks
func (d *UserPerkDraft) Offers(perkID string) bool {
	for _, id := range d.OfferedPerkIDs {
		if id == perkID {
			return true
		}
	}
	return false
}
