package engine

import (
	"context"
	"errors"
	"sort"
	"time"

	"gontrel-admin/internal/models"
)

// countDependents is the declarative invalidation fan-out: committing
// changes for a kind evicts cached totals for the listed kinds. Approving a
// pending video can change a restaurant's pending state, so video commits
// also evict the pending-restaurants total.
var countDependents = map[models.TableKind][]models.TableKind{
	models.TablePendingRestaurants:   {models.TablePendingRestaurants},
	models.TablePendingVideos:        {models.TablePendingVideos, models.TablePendingRestaurants},
	models.TableSubmittedRestaurants: {models.TableSubmittedRestaurants},
	models.TableSubmittedVideos:      {models.TableSubmittedVideos},
}

// Coordinator turns a table session's ledger into committed platform state
// and fans out count-cache invalidation once the batch has settled.
type Coordinator struct {
	api    PlatformAPI
	counts *CountCache
}

// NewCoordinator creates a coordinator against the given platform API and
// shared count cache.
func NewCoordinator(api PlatformAPI, counts *CountCache) *Coordinator {
	return &Coordinator{api: api, counts: counts}
}

// Commit submits one status update per ledger entry, tracking success per
// entry. Succeeded entries leave the ledger even when others fail (the
// failed ones stay so the operator can retry); the returned error is a
// *CommitError naming them. An empty ledger is a no-op. Cache invalidation
// happens only after every call in the batch has settled.
func (co *Coordinator) Commit(ctx context.Context, ts *TableSession) ([]models.CommittedChange, error) {
	entries, gen, err := ts.beginCommit()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		succeeded []string
		committed []models.CommittedChange
		failed    = make(map[string]error)
	)
	for _, key := range keys {
		tr := entries[key]
		update, buildErr := updateForKey(key, tr)
		if buildErr != nil {
			failed[key] = buildErr
			continue
		}
		if callErr := co.api.UpdateStatus(ctx, update); callErr != nil {
			failed[key] = callErr
			continue
		}
		succeeded = append(succeeded, key)
		committed = append(committed, models.CommittedChange{
			Kind:        ts.kind,
			ChangeKey:   key,
			EntityID:    update.EntityID,
			Field:       update.Field,
			PostID:      update.PostID,
			NewStatus:   update.NewStatus,
			Comment:     update.Comment,
			CommittedAt: time.Now().UTC(),
		})
	}

	// The cache is process-wide, not session state: the succeeded calls
	// changed server totals no matter what happened to this workspace, so
	// other workspaces must not keep serving the old numbers.
	if len(succeeded) > 0 {
		co.invalidateFor(ts, committed)
	}

	finishErr := ts.finishCommit(gen, entries, succeeded, failed)
	if errors.Is(finishErr, ErrWorkspaceReset) {
		// The session is gone; the platform accepted the succeeded calls
		// but nothing local may be touched on their behalf.
		return nil, ErrWorkspaceReset
	}
	return committed, finishErr
}

// Discard drops the ledger without calling the platform. It always
// succeeds, but not while a commit is in flight.
func (co *Coordinator) Discard(ts *TableSession) error {
	if ts.IsSaving() {
		return ErrCommitInFlight
	}
	ts.Discard()
	return nil
}

func updateForKey(key string, tr models.PendingTransition) (models.StatusUpdate, error) {
	entityID, field, postID, ok := models.SplitChangeKey(key)
	if !ok {
		return models.StatusUpdate{}, errors.New("malformed change key: " + key)
	}
	return models.StatusUpdate{
		EntityID:  entityID,
		Field:     field,
		PostID:    postID,
		NewStatus: tr.NewStatus,
		Comment:   tr.Comment,
	}, nil
}

// invalidateFor evicts the totals the committed batch may have changed:
// the kinds from the dependency table, plus active-restaurants when a
// commit in the pending-restaurants queue made a restaurant fully approved.
func (co *Coordinator) invalidateFor(ts *TableSession, committed []models.CommittedChange) {
	kinds := append([]models.TableKind(nil), countDependents[ts.kind]...)

	if ts.kind == models.TablePendingRestaurants && anyFullyApproved(ts.snapshotData(), committed) {
		kinds = append(kinds, models.TableActiveRestaurants)
	}

	for _, k := range kinds {
		co.counts.Invalidate(k)
	}
}

// anyFullyApproved applies the committed changes to copies of the fetched
// restaurants and reports whether one of them ended up fully approved.
func anyFullyApproved(data []models.Entity, committed []models.CommittedChange) bool {
	byID := make(map[string]*models.Restaurant)
	for _, e := range data {
		if e.Restaurant != nil {
			byID[e.Restaurant.ID] = e.Restaurant.Clone()
		}
	}

	touched := make(map[string]bool)
	for _, ch := range committed {
		r, ok := byID[ch.EntityID]
		if !ok {
			continue
		}
		touched[ch.EntityID] = true
		if ch.Field != "" {
			if f := r.Field(ch.Field); f != nil {
				f.Status = ch.NewStatus
			}
		} else if p := r.Post(ch.PostID); p != nil {
			p.Status = ch.NewStatus
		}
	}

	for id := range touched {
		if byID[id].FullyApproved() {
			return true
		}
	}
	return false
}

// snapshotData returns deep copies of the fetched page rows.
func (ts *TableSession) snapshotData() []models.Entity {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]models.Entity, 0, len(ts.data))
	for _, e := range ts.data {
		out = append(out, e.Clone())
	}
	return out
}
