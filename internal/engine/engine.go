// Package engine implements the moderation queue workflow: per-kind table
// sessions holding fetched pages and ledgers of unsaved status intents, a
// projector that overlays intents onto server state, a commit coordinator
// that drains ledgers into platform status updates, and a TTL cache for
// queue totals.
package engine

import (
	"context"
	"fmt"

	"gontrel-admin/internal/models"
)

// PlatformAPI is the slice of the remote Gontrel platform API the engine
// consumes. The HTTP client in internal/gontrel implements it; tests
// substitute a fake.
type PlatformAPI interface {
	FetchPage(ctx context.Context, kind models.TableKind, q models.PageQuery) (models.Page, error)
	UpdateStatus(ctx context.Context, u models.StatusUpdate) error
	FetchCount(ctx context.Context, kind models.TableKind, searchTerm string) (int, error)
}

// DefaultPageSize is applied when a page query does not set one.
const DefaultPageSize = 20

// Engine is one staff workspace over the moderation queues: a typed,
// fixed set of table sessions (one per queue kind), the commit
// coordinator, and a handle on the shared count cache. Sessions of
// different kinds never share a ledger.
type Engine struct {
	api         PlatformAPI
	counts      *CountCache
	coordinator *Coordinator
	sessions    map[models.TableKind]*TableSession
}

// New creates an engine with an empty session per queue kind. The count
// cache is shared process-wide and passed in by the caller.
func New(api PlatformAPI, counts *CountCache) *Engine {
	sessions := make(map[models.TableKind]*TableSession, len(models.QueueKinds()))
	for _, kind := range models.QueueKinds() {
		sessions[kind] = NewTableSession(kind)
	}
	return &Engine{
		api:         api,
		counts:      counts,
		coordinator: NewCoordinator(api, counts),
		sessions:    sessions,
	}
}

// Session returns the table session for a queue kind.
func (e *Engine) Session(kind models.TableKind) (*TableSession, error) {
	ts, ok := e.sessions[kind]
	if !ok {
		return nil, fmt.Errorf("unknown table kind %q", kind)
	}
	return ts, nil
}

// LoadPage fetches a page for a queue and installs it in the kind's
// session. On failure the previous page is retained and the error is also
// surfaced on the session.
func (e *Engine) LoadPage(ctx context.Context, kind models.TableKind, q models.PageQuery) error {
	ts, err := e.Session(kind)
	if err != nil {
		return err
	}

	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}

	page, err := e.api.FetchPage(ctx, kind, q)
	if err != nil {
		ts.SetError(err.Error())
		return fmt.Errorf("fetch %s page %d: %w", kind, q.Page, err)
	}

	ts.SetPage(page.Items, models.Pagination{
		Page:     q.Page,
		PageSize: q.PageSize,
		Total:    page.Total,
	}, q)
	e.counts.Put(kind, q.SearchTerm, page.Total)
	return nil
}

// GetEffectiveView returns the ledger-overlaid projection of the kind's
// current page.
func (e *Engine) GetEffectiveView(kind models.TableKind) ([]ProjectedEntity, error) {
	ts, err := e.Session(kind)
	if err != nil {
		return nil, err
	}
	return ts.EffectiveView(), nil
}

// RecordTransition records an approve/reject intent against an entity's
// field or nested post in the kind's ledger.
func (e *Engine) RecordTransition(kind models.TableKind, entityID string, tr models.PendingTransition) (string, error) {
	ts, err := e.Session(kind)
	if err != nil {
		return "", err
	}
	if !tr.NewStatus.IsDecision() {
		return "", fmt.Errorf("transition status must be %q or %q", models.StatusApproved, models.StatusRejected)
	}
	return ts.RecordTransition(entityID, tr)
}

// Commit drains the kind's ledger into platform status updates.
func (e *Engine) Commit(ctx context.Context, kind models.TableKind) ([]models.CommittedChange, error) {
	ts, err := e.Session(kind)
	if err != nil {
		return nil, err
	}
	return e.coordinator.Commit(ctx, ts)
}

// Discard drops the kind's unsaved intents without any remote call.
func (e *Engine) Discard(kind models.TableKind) error {
	ts, err := e.Session(kind)
	if err != nil {
		return err
	}
	return e.coordinator.Discard(ts)
}

// Total returns the queue total for a kind and search term, from cache
// when fresh, otherwise from the platform.
func (e *Engine) Total(ctx context.Context, kind models.TableKind, searchTerm string) (total int, cached bool, err error) {
	if total, ok := e.counts.Get(kind, searchTerm); ok {
		return total, true, nil
	}
	total, err = e.api.FetchCount(ctx, kind, searchTerm)
	if err != nil {
		return 0, false, fmt.Errorf("fetch %s count: %w", kind, err)
	}
	e.counts.Put(kind, searchTerm, total)
	return total, false, nil
}

// HasUnsavedChanges reports whether the kind's ledger is non-empty.
func (e *Engine) HasUnsavedChanges(kind models.TableKind) bool {
	if ts, err := e.Session(kind); err == nil {
		return ts.HasUnsavedChanges()
	}
	return false
}

// IsSaving reports whether a commit for the kind is in flight.
func (e *Engine) IsSaving(kind models.TableKind) bool {
	if ts, err := e.Session(kind); err == nil {
		return ts.IsSaving()
	}
	return false
}

// LastError returns the kind's most recent surfaced failure, or "".
func (e *Engine) LastError(kind models.TableKind) string {
	if ts, err := e.Session(kind); err == nil {
		return ts.LastError()
	}
	return ""
}

// Reset restores every table session to its initial empty state.
func (e *Engine) Reset() {
	for _, ts := range e.sessions {
		ts.Reset()
	}
}
