package peer

import (
	"maps"
	"slices"
	"sync"
)

// Registry is the tracker's set of announced peer addresses.
type Registry struct {
	mu    sync.RWMutex
	peers map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		peers: make(map[string]struct{}),
	}
}

// Add reports whether the address wasn't known before.
func (r *Registry) Add(addr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.peers[addr]; found {
		return false
	}

	r.peers[addr] = struct{}{}
	return true
}

// List returns the addresses sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.peers))
}
