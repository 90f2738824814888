package audit

import "sync"

var _ Auditor = (*InMemoryAuditor)(nil)

// InMemoryAuditor keeps entries in memory, oldest first. Useful for tests
// and for tooling that inspects a short evaluation session.
type InMemoryAuditor struct {
	mu      sync.Mutex
	entries []Entry
}

func NewInMemoryAuditor() *InMemoryAuditor {
	return &InMemoryAuditor{
		entries: make([]Entry, 0),
	}
}

func (i *InMemoryAuditor) Log(entry Entry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.entries = append(i.entries, entry)
	return nil
}

// GetRecent returns the last limit entries in insertion order.
func (i *InMemoryAuditor) GetRecent(limit int) ([]Entry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if limit > len(i.entries) {
		limit = len(i.entries)
	}
	start := len(i.entries) - limit
	entries := make([]Entry, limit)
	copy(entries, i.entries[start:])

	return entries, nil
}

// Find returns the last limit entries accepted by filter, in insertion order.
func (i *InMemoryAuditor) Find(filter func(entry Entry) bool, limit int) ([]Entry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var matches []Entry
	for _, entry := range i.entries {
		if filter(entry) {
			matches = append(matches, entry)
		}
	}

	if len(matches) > limit {
		matches = matches[len(matches)-limit:]
	}

	return matches, nil
}

func (i *InMemoryAuditor) Close() error {
	return nil // nothing to close :)
}
