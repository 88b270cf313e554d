package engine

import (
	"sync"

	"gontrel-admin/internal/models"
)

// TableSession is the addressable unit of UI/data binding for one table
// kind: the fetched page, its pagination cursor, the search filter, row
// selection, and the ledger of unsaved status intents. Sessions for
// different kinds never share a ledger.
type TableSession struct {
	kind models.TableKind

	mu         sync.Mutex
	data       []models.Entity
	pagination models.Pagination
	query      models.PageQuery
	selected   []string
	ledger     *Ledger
	saving     bool
	lastErr    string

	// generation gates commit completions: a Reset bumps it, and a commit
	// that started under an older generation discards its results.
	generation uint64
}

// NewTableSession creates an empty session for one table kind.
func NewTableSession(kind models.TableKind) *TableSession {
	return &TableSession{
		kind:   kind,
		ledger: NewLedger(),
	}
}

// Kind returns the table kind this session belongs to.
func (ts *TableSession) Kind() models.TableKind { return ts.kind }

// SetPage replaces the fetched data and pagination after a successful
// fetch. The ledger survives a refetch so unsaved clicks are not lost, but
// entries that no longer resolve to any field or post on the new page are
// pruned; a phantom intent against a row that left the page would otherwise
// be silently committed later.
func (ts *TableSession) SetPage(entities []models.Entity, pagination models.Pagination, query models.PageQuery) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.data = entities
	ts.pagination = pagination
	ts.query = query
	ts.lastErr = ""

	for _, key := range ts.ledger.Keys() {
		if !resolves(entities, key) {
			ts.ledger.Delete(key)
		}
	}
}

func resolves(entities []models.Entity, key string) bool {
	for _, e := range entities {
		if e.HasChangeKey(key) {
			return true
		}
	}
	return false
}

// RecordTransition writes a pending intent into the ledger. The change key
// is derived from the target entity and transition; it must resolve to a
// row on the current page.
func (ts *TableSession) RecordTransition(entityID string, tr models.PendingTransition) (string, error) {
	key, err := models.KeyFor(entityID, tr)
	if err != nil {
		return "", err
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.ledger.Set(key, tr)
	return key, nil
}

// SelectRows replaces the selected row IDs. Selection is bulk-action
// bookkeeping only; it never touches the ledger.
func (ts *TableSession) SelectRows(ids []string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.selected = append([]string(nil), ids...)
}

// ClearSelection drops all selected rows.
func (ts *TableSession) ClearSelection() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.selected = nil
}

// Selected returns a copy of the selected row IDs.
func (ts *TableSession) Selected() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.selected...)
}

// Discard drops all pending intents without touching the platform. The
// next EffectiveView equals server truth again.
func (ts *TableSession) Discard() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.ledger.Clear()
	ts.lastErr = ""
}

// Reset restores the initial empty state, including the ledger, and
// invalidates any in-flight commit for this session.
func (ts *TableSession) Reset() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.data = nil
	ts.pagination = models.Pagination{}
	ts.query = models.PageQuery{}
	ts.selected = nil
	ts.ledger.Clear()
	ts.saving = false
	ts.lastErr = ""
	ts.generation++
}

// EffectiveView returns the current page with pending transitions overlaid.
// The result is a fresh projection; the fetched page is never mutated.
func (ts *TableSession) EffectiveView() []ProjectedEntity {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return Project(ts.data, ts.ledger)
}

// Pagination returns the current pagination cursor.
func (ts *TableSession) Pagination() models.Pagination {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.pagination
}

// Query returns the filter the current page was fetched with.
func (ts *TableSession) Query() models.PageQuery {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.query
}

// HasUnsavedChanges is true iff the ledger is non-empty.
func (ts *TableSession) HasUnsavedChanges() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.ledger.Len() > 0
}

// IsSaving reports whether a commit is in flight.
func (ts *TableSession) IsSaving() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.saving
}

// LastError returns the most recent fetch or commit failure, or "".
func (ts *TableSession) LastError() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.lastErr
}

// SetError records a fetch failure. Prior data is deliberately retained so
// a transient failure does not blank the table.
func (ts *TableSession) SetError(msg string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.lastErr = msg
}

// beginCommit snapshots the ledger and flips the saving flag. It returns
// the entries to submit and the generation the commit runs under.
func (ts *TableSession) beginCommit() (map[string]models.PendingTransition, uint64, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.saving {
		return nil, 0, ErrCommitInFlight
	}
	if ts.ledger.Len() == 0 {
		return nil, ts.generation, nil
	}
	ts.saving = true
	return ts.ledger.Entries(), ts.generation, nil
}

// finishCommit applies the outcome of a settled batch. If the session was
// reset while the batch was in flight the results are discarded. A
// succeeded key is removed only while its ledger entry still equals the
// snapshotted transition: the operator may have re-recorded a newer intent
// on that key while the batch was on the wire, and last-write-wins says
// the newer intent survives.
func (ts *TableSession) finishCommit(gen uint64, snapshot map[string]models.PendingTransition, succeeded []string, failed map[string]error) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.generation != gen {
		return ErrWorkspaceReset
	}
	ts.saving = false

	for _, key := range succeeded {
		if current, ok := ts.ledger.Get(key); ok && current == snapshot[key] {
			ts.ledger.Delete(key)
		}
	}
	if len(failed) > 0 {
		err := &CommitError{Failed: failed}
		ts.lastErr = err.Error()
		return err
	}
	ts.lastErr = ""
	return nil
}
