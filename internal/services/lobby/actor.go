package lobby

import (
	"github.com/KirkDiggler/quizdraft/internal/common/clock"
	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/services/game"
)

// actor owns one lobby. Everything below the channels is only touched by the
// run goroutine.
type actor struct {
	code  string
	inbox chan func()
	quit  chan struct{}
	done  chan struct{}

	lobby   *models.Lobby
	session game.Session

	// removal is the pending grace-period or abandonment timer
	removal clock.Timer
	stopped bool
}

func newActor(l *models.Lobby, inboxSize int) *actor {
	return &actor{
		code:  l.Code,
		inbox: make(chan func(), inboxSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
		lobby: l,
	}
}

func (a *actor) run() {
	defer close(a.done)
	for {
		select {
		case f := <-a.inbox:
			f()
			if a.stopped {
				return
			}
		case <-a.quit:
			return
		}
	}
}

// post queues f without waiting for it. Used by timer callbacks, which must
// never run on the actor goroutine itself.
func (a *actor) post(f func()) {
	select {
	case a.inbox <- f:
	case <-a.done:
	}
}

func (a *actor) stopRemoval() {
	if a.removal != nil {
		a.removal.Stop()
		a.removal = nil
	}
}
