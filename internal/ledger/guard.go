// Package ledger provides the commit guard that serializes state-changing
// operations. The system this core descends from applied every mutation in a
// single total order; off that substrate the same guarantee is reproduced
// with one writer lock over the whole engine, so each operation observes a
// fully committed prior state and its own effects become visible atomically.
package ledger

import (
	"sync"
)

type Guard struct {
	mu sync.Mutex
}

func NewGuard() *Guard {
	return &Guard{}
}

// Commit runs fn while holding the engine-wide writer lock.
func (g *Guard) Commit(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}
