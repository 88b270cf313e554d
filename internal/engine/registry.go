package engine

import (
	"sync"
	"time"

	"gontrel-admin/internal/models"
)

// Registry hands out one Engine per staff browser session. Pending ledgers
// are scoped to the operator who made the clicks; they die with the
// workspace (no cross-session sharing, no persistence). The count cache is
// shared across all workspaces.
type Registry struct {
	api    PlatformAPI
	counts *CountCache

	mu         sync.Mutex
	workspaces map[string]*workspace

	now func() time.Time // swapped in tests
}

type workspace struct {
	engine     *Engine
	lastActive time.Time
}

// NewRegistry creates a registry sharing one count cache between all
// workspaces.
func NewRegistry(api PlatformAPI, counts *CountCache) *Registry {
	return &Registry{
		api:        api,
		counts:     counts,
		workspaces: make(map[string]*workspace),
		now:        time.Now,
	}
}

// ForSession returns the engine for a staff session ID, creating it on
// first use and refreshing its activity timestamp.
func (r *Registry) ForSession(sessionID string) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[sessionID]
	if !ok {
		ws = &workspace{engine: New(r.api, r.counts)}
		r.workspaces[sessionID] = ws
	}
	ws.lastActive = r.now()
	return ws.engine
}

// Remove resets and drops a workspace, e.g. on logout. In-flight commits
// discard their results via the sessions' generation gate.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	ws, ok := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	r.mu.Unlock()

	if ok {
		ws.engine.Reset()
	}
}

// EvictIdle drops workspaces idle for longer than maxIdle and returns how
// many were evicted. Called by the background janitor.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	cutoff := r.now().Add(-maxIdle)
	var evicted []*workspace
	for id, ws := range r.workspaces {
		if ws.lastActive.Before(cutoff) {
			evicted = append(evicted, ws)
			delete(r.workspaces, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range evicted {
		ws.engine.Reset()
	}
	return len(evicted)
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Counts exposes the shared count cache, e.g. for the prewarm job.
func (r *Registry) Counts() *CountCache {
	return r.counts
}

// DirtyKinds reports which queue kinds of a workspace hold unsaved
// changes. Used by the UI to warn before navigation.
func (r *Registry) DirtyKinds(sessionID string) []models.TableKind {
	r.mu.Lock()
	ws, ok := r.workspaces[sessionID]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	var dirty []models.TableKind
	for _, kind := range models.QueueKinds() {
		if ws.engine.HasUnsavedChanges(kind) {
			dirty = append(dirty, kind)
		}
	}
	return dirty
}
