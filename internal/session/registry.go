package session

import (
	"fmt"
	"sync"
	"time"
)

// Factory builds the machine for a user on first use.
type Factory func(userID string) (*Machine, error)

// Registry keeps one Machine per user.
type Registry struct {
	factory Factory
	now     func() time.Time

	mu       sync.Mutex
	machines map[string]*Machine
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory:  factory,
		now:      time.Now,
		machines: make(map[string]*Machine),
	}
}

// Get returns the user's machine, creating it if needed.
func (r *Registry) Get(userID string) (*Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.machines[userID]; ok {
		return m, nil
	}
	m, err := r.factory(userID)
	if err != nil {
		return nil, fmt.Errorf("create session for user: %w", err)
	}
	r.machines[userID] = m
	return m, nil
}

// Len returns the number of live machines.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.machines)
}

// Sweep drops machines idle for longer than idle. Busy machines are kept.
// Progress is persisted on every mutation, so a dropped machine loses only
// its in-flight transcript. It returns the number removed.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, m := range r.machines {
		if m.Busy() || m.LastUsed().After(cutoff) {
			continue
		}
		delete(r.machines, id)
		removed++
	}
	return removed
}
