package draft

import (
	"log/slog"

	"github.com/KirkDiggler/quizdraft/internal/common/clock"
	"github.com/KirkDiggler/quizdraft/internal/common/uuid"
	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/perks"
	"github.com/KirkDiggler/quizdraft/internal/random"
	"github.com/KirkDiggler/quizdraft/internal/repositories/progress"
)

// DefaultOfferSize is the number of perks offered per draft
const DefaultOfferSize = 3

// Config holds the dependencies of the draft service
type Config struct {
	ProgressRepo progress.Repository

	// Catalog may be nil when it failed to load; drafts and loadouts then
	// fail with ErrCatalogUnavailable
	Catalog *perks.Catalog

	Random random.Source
	Clock  clock.Clock
	UUID   uuid.UUID
	Logger *slog.Logger

	// OfferSize defaults to DefaultOfferSize
	OfferSize int
}

type OnLevelUpInput struct {
	UserID string
	Level  int
}

type OnLevelUpOutput struct {
	// Draft is nil when no eligible perk was left to offer
	Draft *models.UserPerkDraft

	// Created is false when the draft already existed
	Created bool
}

type ResolveDraftInput struct {
	UserID string
	Level  int

	// PerkID is the chosen perk; ignored when Dump is set
	PerkID string
	Dump   bool
}

type ResolveDraftOutput struct {
	Draft *models.UserPerkDraft
}

type GetPendingDraftInput struct {
	UserID string
}

type GetPendingDraftOutput struct {
	// Draft is nil when nothing is pending
	Draft *models.UserPerkDraft
}

type GetLoadoutInput struct {
	UserID string
}

type GetLoadoutOutput struct {
	PerkIDs []string
	Loadout *perks.Loadout
}

type AwardExperienceInput struct {
	UserID string
	XP     int64
}

type AwardExperienceOutput struct {
	Before      int64
	After       int64
	LevelBefore int
	LevelAfter  int

	// Drafts are the drafts created for the levels gained
	Drafts []*models.UserPerkDraft
}
