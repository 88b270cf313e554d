package engine

import (
	"sort"

	"gontrel-admin/internal/models"
)

// Ledger holds pending, uncommitted status transitions keyed by change key.
// Re-setting a key overwrites the prior intent (last-write-wins, no merge).
// It is pure in-memory state; the owning table session synchronizes access.
type Ledger struct {
	entries map[string]models.PendingTransition
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]models.PendingTransition)}
}

// Set inserts or overwrites the transition for a change key. Transition
// legality is not checked here; the platform API is the authority.
func (l *Ledger) Set(key string, tr models.PendingTransition) {
	l.entries[key] = tr
}

// Get returns the pending transition for a key, if any.
func (l *Ledger) Get(key string) (models.PendingTransition, bool) {
	tr, ok := l.entries[key]
	return tr, ok
}

// Delete removes a single entry. Removing an absent key is a no-op.
func (l *Ledger) Delete(key string) {
	delete(l.entries, key)
}

// Clear removes all entries.
func (l *Ledger) Clear() {
	l.entries = make(map[string]models.PendingTransition)
}

// Len returns the number of pending entries. The dirty flag of a table
// session is always derived from this, never stored.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Keys returns the change keys in sorted order so commits and error
// reports are deterministic.
func (l *Ledger) Keys() []string {
	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the ledger contents keyed by change key.
func (l *Ledger) Entries() map[string]models.PendingTransition {
	out := make(map[string]models.PendingTransition, len(l.entries))
	for k, v := range l.entries {
		out[k] = v
	}
	return out
}
