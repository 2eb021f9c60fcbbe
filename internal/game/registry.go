// internal/game/registry.go
package game

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the in-memory index of live tables.
type Registry struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*PreferansGame
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[uuid.UUID]*PreferansGame)}
}

// Add registers a table.
func (r *Registry) Add(g *PreferansGame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.ID] = g
}

// Get returns the table with the given id, or nil.
func (r *Registry) Get(id uuid.UUID) *PreferansGame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.games[id]
}

// Remove drops a table from the registry.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
}

// List returns every live table.
func (r *Registry) List() []*PreferansGame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*PreferansGame, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	return out
}
