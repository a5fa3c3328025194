package clock

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/quizdraft/internal/common/clock Clock,Timer

import "time"

// Clock supplies the current time and scheduled callbacks
type Clock interface {
	Now() time.Time

	// AfterFunc calls f in its own goroutine once d has elapsed
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on the runtime timer wheel
func (c *DefaultClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
