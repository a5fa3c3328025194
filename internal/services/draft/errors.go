package draft

import "github.com/KirkDiggler/quizdraft/internal/common/apperr"

// DraftError is a construction error of the draft service
type DraftError string

// Error implements the error interface
func (e DraftError) Error() string {
	return string(e)
}

const (
	ErrNilConfig       DraftError = "config cannot be nil"
	ErrNilProgressRepo DraftError = "progress repository cannot be nil"
	ErrNilRandom       DraftError = "random source cannot be nil"
	ErrNilClock        DraftError = "clock cannot be nil"
	ErrNilUUID         DraftError = "UUID generator cannot be nil"
)

var (
	ErrMissingUser        = apperr.New(apperr.KindValidation, "missing_user", "a player identity is required")
	ErrInvalidLevel       = apperr.New(apperr.KindValidation, "invalid_level", "level must be at least 1")
	ErrMissingChoice      = apperr.New(apperr.KindValidation, "missing_choice", "choose a perk or dump the draft")
	ErrDraftNotFound      = apperr.New(apperr.KindNotFound, "draft_not_found", "no draft exists for that level")
	ErrAlreadyResolved    = apperr.New(apperr.KindConflict, "draft_already_resolved", "this draft was already resolved")
	ErrNotOffered         = apperr.New(apperr.KindConflict, "perk_not_offered", "that perk was not offered in this draft")
	ErrCatalogUnavailable = apperr.New(apperr.KindInternal, "catalog_unavailable", "the perk catalog is unavailable")
)
