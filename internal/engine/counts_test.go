package engine

import (
	"testing"
	"time"

	"gontrel-admin/internal/models"
)

func TestCountCacheHitAndMiss(t *testing.T) {
	c := NewCountCache(30 * time.Second)

	if _, ok := c.Get(models.TablePendingRestaurants, ""); ok {
		t.Error("empty cache reported a hit")
	}

	c.Put(models.TablePendingRestaurants, "", 42)
	c.Put(models.TablePendingRestaurants, "burger", 3)

	if total, ok := c.Get(models.TablePendingRestaurants, ""); !ok || total != 42 {
		t.Errorf("Get() = %d, %v; want 42, true", total, ok)
	}
	if total, ok := c.Get(models.TablePendingRestaurants, "burger"); !ok || total != 3 {
		t.Errorf("Get(burger) = %d, %v; want 3, true", total, ok)
	}
	if _, ok := c.Get(models.TablePendingVideos, ""); ok {
		t.Error("hit for a kind that was never stored")
	}
}

func TestCountCacheTTLExpiry(t *testing.T) {
	c := NewCountCache(30 * time.Second)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Put(models.TablePendingVideos, "", 9)

	now = base.Add(29 * time.Second)
	if _, ok := c.Get(models.TablePendingVideos, ""); !ok {
		t.Error("entry expired before the TTL elapsed")
	}

	now = base.Add(31 * time.Second)
	if _, ok := c.Get(models.TablePendingVideos, ""); ok {
		t.Error("entry survived past its TTL")
	}
}

// Invalidation is coarse: every search term for the kind goes.
func TestCountCacheInvalidateDropsAllTermsForKind(t *testing.T) {
	c := NewCountCache(time.Minute)
	c.Put(models.TablePendingRestaurants, "", 10)
	c.Put(models.TablePendingRestaurants, "burger", 2)
	c.Put(models.TableSubmittedRestaurants, "", 5)

	c.Invalidate(models.TablePendingRestaurants)

	if _, ok := c.Get(models.TablePendingRestaurants, ""); ok {
		t.Error("unscoped total survived invalidation")
	}
	if _, ok := c.Get(models.TablePendingRestaurants, "burger"); ok {
		t.Error("search-scoped total survived invalidation")
	}
	if _, ok := c.Get(models.TableSubmittedRestaurants, ""); !ok {
		t.Error("invalidation leaked into another kind")
	}
}
