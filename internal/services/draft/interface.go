package draft

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/quizdraft/internal/services/draft Service

import "context"

// Service manages per-level perk drafts, owned perks and experience
type Service interface {
	// OnLevelUp offers a draft for a newly reached level unless one exists
	OnLevelUp(ctx context.Context, input *OnLevelUpInput) (*OnLevelUpOutput, error)

	// ResolveDraft picks an offered perk or dumps the draft, exactly once
	ResolveDraft(ctx context.Context, input *ResolveDraftInput) (*ResolveDraftOutput, error)

	// GetPendingDraft returns the lowest unresolved draft of a player, if any
	GetPendingDraft(ctx context.Context, input *GetPendingDraftInput) (*GetPendingDraftOutput, error)

	// GetLoadout resolves a player's owned perks into a scoring loadout
	GetLoadout(ctx context.Context, input *GetLoadoutInput) (*GetLoadoutOutput, error)

	// AwardExperience adds xp and offers a draft for every level gained
	AwardExperience(ctx context.Context, input *AwardExperienceInput) (*AwardExperienceOutput, error)
}
