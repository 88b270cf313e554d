package jobs

import (
	"context"
	"log"
	"time"

	"gontrel-admin/internal/engine"
	"gontrel-admin/internal/models"
)

// Prewarmer keeps the shared count cache warm so dashboard tab badges
// render without waiting on the platform.
type Prewarmer struct {
	api      engine.PlatformAPI
	counts   *engine.CountCache
	interval time.Duration
}

// NewPrewarmer creates a new count prewarmer.
func NewPrewarmer(api engine.PlatformAPI, counts *engine.CountCache, interval time.Duration) *Prewarmer {
	return &Prewarmer{
		api:      api,
		counts:   counts,
		interval: interval,
	}
}

// Start begins the background prewarm loop.
func (p *Prewarmer) Start(ctx context.Context) {
	log.Printf("Count prewarmer started (interval: %v)", p.interval)

	// Run immediately on start
	p.warm(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Count prewarmer stopped")
			return
		case <-ticker.C:
			p.warm(ctx)
		}
	}
}

// warm refreshes the unfiltered total for every queue plus the active
// restaurants counter.
func (p *Prewarmer) warm(ctx context.Context) {
	kinds := append(models.QueueKinds(), models.TableActiveRestaurants)
	for _, kind := range kinds {
		total, err := p.api.FetchCount(ctx, kind, "")
		if err != nil {
			log.Printf("Count prewarm failed for %s: %v", kind, err)
			continue
		}
		p.counts.Put(kind, "", total)
	}
}
