package progress

import (
	"errors"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when inserting a draft for a level that has one
	ErrAlreadyExists = errors.New("already exists")

	// ErrAlreadyResolved is returned when resolving a draft twice
	ErrAlreadyResolved = errors.New("draft already resolved")
)

type ListPerksInput struct {
}

type ListPerksOutput struct {
	Perks []*models.Perk
}

type UpsertPerksInput struct {
	Perks []*models.Perk
}

type GetPlayerPerksInput struct {
	UserID string
}

type GetPlayerPerksOutput struct {
	PerkIDs []string
}

type GetUserPerkDraftInput struct {
	UserID string
	Level  int
}

type GetPendingDraftInput struct {
	UserID string
}

type InsertUserPerkDraftInput struct {
	Draft *models.UserPerkDraft
}

type ResolveUserPerkDraftInput struct {
	UserID string
	Level  int

	// PerkID is the chosen perk; nil dumps the draft
	PerkID     *string
	ResolvedAt time.Time
}

type InsertPlayerResultsInput struct {
	Results []*models.PlayerResult
}

type AddExperienceInput struct {
	UserID string
	XP     int64
}

type AddExperienceOutput struct {
	Before int64
	After  int64
}
