package progress

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/quizdraft/internal/repositories/progress Repository

import (
	"context"

	"github.com/KirkDiggler/quizdraft/internal/models"
)

// Repository persists durable player progress: the perk catalog, owned perks,
// experience, level-up drafts and finished game results
type Repository interface {
	// ListPerks returns every perk definition
	ListPerks(ctx context.Context, input *ListPerksInput) (*ListPerksOutput, error)

	// UpsertPerks inserts or replaces perk definitions
	UpsertPerks(ctx context.Context, input *UpsertPerksInput) error

	// GetPlayerPerks returns the ids of the perks a user owns
	GetPlayerPerks(ctx context.Context, input *GetPlayerPerksInput) (*GetPlayerPerksOutput, error)

	// GetUserPerkDraft returns the draft for a user and level, or ErrNotFound
	GetUserPerkDraft(ctx context.Context, input *GetUserPerkDraftInput) (*models.UserPerkDraft, error)

	// GetPendingDraft returns the lowest-level unresolved draft, or ErrNotFound
	GetPendingDraft(ctx context.Context, input *GetPendingDraftInput) (*models.UserPerkDraft, error)

	// InsertUserPerkDraft stores a new draft, or returns ErrAlreadyExists when
	// the user already has one for that level
	InsertUserPerkDraft(ctx context.Context, input *InsertUserPerkDraftInput) error

	// ResolveUserPerkDraft records the choice on an unresolved draft and grants
	// the chosen perk in the same transaction
	ResolveUserPerkDraft(ctx context.Context, input *ResolveUserPerkDraftInput) (*models.UserPerkDraft, error)

	// InsertPlayerResults stores the results of a finished session
	InsertPlayerResults(ctx context.Context, input *InsertPlayerResultsInput) error

	// AddExperience adds xp to a user and returns the totals before and after
	AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error)
}
