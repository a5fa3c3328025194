package draft

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KirkDiggler/quizdraft/internal/common/apperr"
	"github.com/KirkDiggler/quizdraft/internal/common/clock"
	"github.com/KirkDiggler/quizdraft/internal/common/uuid"
	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/perks"
	"github.com/KirkDiggler/quizdraft/internal/random"
	"github.com/KirkDiggler/quizdraft/internal/repositories/progress"
)

// service implements the Service interface
type service struct {
	progressRepo progress.Repository
	catalog      *perks.Catalog
	random       random.Source
	clock        clock.Clock
	uuid         uuid.UUID
	logger       *slog.Logger
	offerSize    int
}

// New creates a new draft service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.ProgressRepo == nil {
		return nil, ErrNilProgressRepo
	}
	if cfg.Random == nil {
		return nil, ErrNilRandom
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}

	s := &service{
		progressRepo: cfg.ProgressRepo,
		catalog:      cfg.Catalog,
		random:       cfg.Random,
		clock:        cfg.Clock,
		uuid:         cfg.UUID,
		logger:       cfg.Logger,
		offerSize:    cfg.OfferSize,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.offerSize <= 0 {
		s.offerSize = DefaultOfferSize
	}

	return s, nil
}

// OnLevelUp offers a draft for a level. Calling it again for the same level
// returns the stored draft, resolved or not, without rolling new offers.
func (s *service) OnLevelUp(ctx context.Context, input *OnLevelUpInput) (*OnLevelUpOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, ErrMissingUser
	}
	if input.Level < 1 {
		return nil, ErrInvalidLevel
	}

	existing, err := s.progressRepo.GetUserPerkDraft(ctx, &progress.GetUserPerkDraftInput{
		UserID: input.UserID,
		Level:  input.Level,
	})
	if err == nil {
		return &OnLevelUpOutput{Draft: existing}, nil
	}
	if !errors.Is(err, progress.ErrNotFound) {
		return nil, apperr.Persistence("get draft", err)
	}

	if s.catalog == nil {
		return nil, ErrCatalogUnavailable
	}

	owned, err := s.progressRepo.GetPlayerPerks(ctx, &progress.GetPlayerPerksInput{UserID: input.UserID})
	if err != nil {
		return nil, apperr.Persistence("get player perks", err)
	}
	exclude := make(map[string]bool, len(owned.PerkIDs))
	for _, id := range owned.PerkIDs {
		exclude[id] = true
	}

	eligible := s.catalog.Eligible(MaxTierForLevel(input.Level), exclude)
	if len(eligible) == 0 {
		s.logger.Info("no perks left to offer", "user_id", input.UserID, "level", input.Level)
		return &OnLevelUpOutput{}, nil
	}

	draft := &models.UserPerkDraft{
		ID:             s.uuid.NewUUID(),
		UserID:         input.UserID,
		Level:          input.Level,
		OfferedPerkIDs: random.Sample(s.random, eligible, s.offerSize),
		DraftedAt:      s.clock.Now(),
	}

	err = s.progressRepo.InsertUserPerkDraft(ctx, &progress.InsertUserPerkDraftInput{Draft: draft})
	if errors.Is(err, progress.ErrAlreadyExists) {
		// lost a race with a concurrent level-up; the stored row wins
		stored, err := s.progressRepo.GetUserPerkDraft(ctx, &progress.GetUserPerkDraftInput{
			UserID: input.UserID,
			Level:  input.Level,
		})
		if err != nil {
			return nil, apperr.Persistence("get draft", err)
		}
		return &OnLevelUpOutput{Draft: stored}, nil
	}
	if err != nil {
		return nil, apperr.Persistence("insert draft", err)
	}

	s.logger.Info("draft offered",
		"user_id", input.UserID,
		"level", input.Level,
		"offered", draft.OfferedPerkIDs,
	)

	return &OnLevelUpOutput{Draft: draft, Created: true}, nil
}

// ResolveDraft records the choice for a draft
func (s *service) ResolveDraft(ctx context.Context, input *ResolveDraftInput) (*ResolveDraftOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, ErrMissingUser
	}
	if input.Level < 1 {
		return nil, ErrInvalidLevel
	}
	if !input.Dump && input.PerkID == "" {
		return nil, ErrMissingChoice
	}

	draft, err := s.progressRepo.GetUserPerkDraft(ctx, &progress.GetUserPerkDraftInput{
		UserID: input.UserID,
		Level:  input.Level,
	})
	if errors.Is(err, progress.ErrNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("get draft", err)
	}
	if draft.Resolved() || draft.ResolvedAt != nil {
		return nil, ErrAlreadyResolved
	}

	var perkID *string
	if !input.Dump {
		if !draft.Offers(input.PerkID) {
			return nil, ErrNotOffered
		}
		id := input.PerkID
		perkID = &id
	}

	resolved, err := s.progressRepo.ResolveUserPerkDraft(ctx, &progress.ResolveUserPerkDraftInput{
		UserID:     input.UserID,
		Level:      input.Level,
		PerkID:     perkID,
		ResolvedAt: s.clock.Now(),
	})
	switch {
	case errors.Is(err, progress.ErrAlreadyResolved):
		return nil, ErrAlreadyResolved
	case errors.Is(err, progress.ErrNotFound):
		return nil, ErrDraftNotFound
	case err != nil:
		return nil, apperr.Persistence("resolve draft", err)
	}

	s.logger.Info("draft resolved",
		"user_id", input.UserID,
		"level", input.Level,
		"perk_id", input.PerkID,
		"dumped", input.Dump,
	)

	return &ResolveDraftOutput{Draft: resolved}, nil
}

// GetPendingDraft returns the lowest unresolved draft
func (s *service) GetPendingDraft(ctx context.Context, input *GetPendingDraftInput) (*GetPendingDraftOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, ErrMissingUser
	}

	draft, err := s.progressRepo.GetPendingDraft(ctx, &progress.GetPendingDraftInput{UserID: input.UserID})
	if errors.Is(err, progress.ErrNotFound) {
		return &GetPendingDraftOutput{}, nil
	}
	if err != nil {
		return nil, apperr.Persistence("get pending draft", err)
	}

	return &GetPendingDraftOutput{Draft: draft}, nil
}

// GetLoadout resolves the perks a player owns
func (s *service) GetLoadout(ctx context.Context, input *GetLoadoutInput) (*GetLoadoutOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, ErrMissingUser
	}
	if s.catalog == nil {
		return nil, ErrCatalogUnavailable
	}

	owned, err := s.progressRepo.GetPlayerPerks(ctx, &progress.GetPlayerPerksInput{UserID: input.UserID})
	if err != nil {
		return nil, apperr.Persistence("get player perks", err)
	}

	loadout, err := s.catalog.Loadout(owned.PerkIDs)
	if err != nil {
		return nil, ErrCatalogUnavailable.Wrap(err)
	}

	return &GetLoadoutOutput{PerkIDs: owned.PerkIDs, Loadout: loadout}, nil
}

// AwardExperience adds xp and offers a draft for each level gained. Draft
// failures are logged and skipped; the xp itself is already stored.
func (s *service) AwardExperience(ctx context.Context, input *AwardExperienceInput) (*AwardExperienceOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, ErrMissingUser
	}
	if input.XP < 0 {
		return nil, apperr.New(apperr.KindValidation, "invalid_xp", "experience cannot be negative")
	}

	added, err := s.progressRepo.AddExperience(ctx, &progress.AddExperienceInput{
		UserID: input.UserID,
		XP:     input.XP,
	})
	if err != nil {
		return nil, apperr.Persistence("add experience", err)
	}

	out := &AwardExperienceOutput{
		Before:      added.Before,
		After:       added.After,
		LevelBefore: LevelForXP(added.Before),
		LevelAfter:  LevelForXP(added.After),
	}

	for level := out.LevelBefore + 1; level <= out.LevelAfter; level++ {
		res, err := s.OnLevelUp(ctx, &OnLevelUpInput{UserID: input.UserID, Level: level})
		if err != nil {
			s.logger.Error("failed to offer draft",
				"user_id", input.UserID,
				"level", level,
				"error", err,
			)
			continue
		}
		if res.Draft != nil {
			out.Drafts = append(out.Drafts, res.Draft)
		}
	}

	return out, nil
}
