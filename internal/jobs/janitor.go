package jobs

import (
	"context"
	"log"
	"time"

	"gontrel-admin/internal/engine"
)

// Janitor evicts moderation workspaces whose staff session has gone idle,
// discarding any unsaved changes they held.
type Janitor struct {
	workspaces *engine.Registry
	interval   time.Duration
	maxIdle    time.Duration
}

// NewJanitor creates a new workspace janitor.
func NewJanitor(workspaces *engine.Registry, interval, maxIdle time.Duration) *Janitor {
	return &Janitor{
		workspaces: workspaces,
		interval:   interval,
		maxIdle:    maxIdle,
	}
}

// Start begins the background eviction loop.
func (j *Janitor) Start(ctx context.Context) {
	log.Printf("Workspace janitor started (interval: %v, maxIdle: %v)", j.interval, j.maxIdle)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Workspace janitor stopped")
			return
		case <-ticker.C:
			if n := j.workspaces.EvictIdle(j.maxIdle); n > 0 {
				log.Printf("Evicted %d idle workspace(s)", n)
			}
		}
	}
}
