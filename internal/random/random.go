package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness used for draft offers and option elimination
type Source interface {
	// Intn returns a value in [0, n)
	Intn(n int) int
}

// Roller provides seeded random selection
type Roller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// Config for the roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new roller
func New(cfg *Config) *Roller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &Roller{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a value in [0, n); n < 1 is treated as 1
func (r *Roller) Intn(n int) int {
	if n < 1 {
		n = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Intn(n)
}

// Sample picks k distinct elements of items using src. The input slice is
// not modified. When k >= len(items) every element is returned in a
// shuffled order.
func Sample[T any](src Source, items []T, k int) []T {
	pool := make([]T, len(items))
	copy(pool, items)
	if k > len(pool) {
		k = len(pool)
	}
	// partial Fisher-Yates
	for i := 0; i < k; i++ {
		j := i + src.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
