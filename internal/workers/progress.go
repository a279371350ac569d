package workers

import (
	"sync"
	"time"
)

type progressEntry struct {
	value       int
	lastTouched time.Time
}

// ProgressTracker maps item ids to a progress percentage with a TTL.
// Staleness is checked lazily on read; there is no background sweep.
type ProgressTracker struct {
	mu      sync.RWMutex
	entries map[string]progressEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewProgressTracker creates a tracker whose entries expire ttl after their
// last update.
func NewProgressTracker(ttl time.Duration) *ProgressTracker {
	return &ProgressTracker{
		entries: make(map[string]progressEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set stores the progress value for an item, clamped to [0,100], and
// refreshes its last-touched time.
func (t *ProgressTracker) Set(itemID string, value int) {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	t.mu.Lock()
	t.entries[itemID] = progressEntry{value: value, lastTouched: t.now()}
	t.mu.Unlock()
}

// Get returns the stored value if it has not expired. Expired entries behave
// as if absent.
func (t *ProgressTracker) Get(itemID string) (int, bool) {
	t.mu.RLock()
	entry, ok := t.entries[itemID]
	t.mu.RUnlock()

	if !ok {
		return 0, false
	}
	if t.now().Sub(entry.lastTouched) > t.ttl {
		return 0, false
	}
	return entry.value, true
}

// GetMany returns the non-expired values for the given ids.
func (t *ProgressTracker) GetMany(itemIDs []string) map[string]int {
	result := make(map[string]int, len(itemIDs))
	for _, id := range itemIDs {
		if v, ok := t.Get(id); ok {
			result[id] = v
		}
	}
	return result
}

// Delete removes the entry for an item.
func (t *ProgressTracker) Delete(itemID string) {
	t.mu.Lock()
	delete(t.entries, itemID)
	t.mu.Unlock()
}
