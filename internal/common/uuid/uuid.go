package uuid

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/quizdraft/internal/common/uuid UUID

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// UUID generates identifiers for sessions, results and drafts
type UUID interface {
	NewUUID() string
}

// DefaultUUID implements the UUID interface using the uuid package
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new random (v4) UUID
func (d *DefaultUUID) NewUUID() string {
	return uuid.New().String()
}

// Sequence hands out "<prefix>-1", "<prefix>-2", ... and is meant for tests
// that need stable identifiers.
type Sequence struct {
	Prefix string

	mu sync.Mutex
	n  int
}

// NewUUID returns the next identifier in the sequence
func (s *Sequence) NewUUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.Prefix + "-" + strconv.Itoa(s.n)
}
