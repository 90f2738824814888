package criterion

import (
	"slices"
	"sync"
)

// Registry is the host-owned keyed store of profiles consulted when an
// evaluation references its profile by id. The engine only ever reads from
// it, and only during profile resolution.
type Registry interface {
	// Get returns the profile stored under id.
	Get(id string) (any, bool)

	// Register stores profile under id, replacing any previous value.
	Register(id string, profile any)

	// Has reports whether a profile is stored under id.
	Has(id string) bool
}

// MemoryRegistry is an in-memory Registry, safe for concurrent use. Hosts
// typically fill it at startup and hand it to every Run call; see the
// profilesource package for loading registries from YAML files.
type MemoryRegistry struct {
	mu       sync.RWMutex
	profiles map[string]any
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		profiles: make(map[string]any),
	}
}

func (r *MemoryRegistry) Get(id string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[id]
	return profile, ok
}

func (r *MemoryRegistry) Register(id string, profile any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[id] = profile
}

func (r *MemoryRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.profiles[id]
	return ok
}

// Unregister removes the profile stored under id, if any.
func (r *MemoryRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, id)
}

// IDs returns the registered profile ids, sorted.
func (r *MemoryRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
