package engine

import (
	"context"
	"errors"
	"testing"

	"gontrel-admin/internal/models"
	"gontrel-admin/internal/testutil"
)

// Full walkthrough: load page, approve a field, commit, verify ledger and
// count cache afterwards.
func TestModerationRoundTrip(t *testing.T) {
	r1 := testutil.PendingRestaurant(t, "rst_1", "Blue Door")
	r1.Menu.Status = models.StatusApproved
	r1.Reservation.Status = models.StatusApproved
	r2 := testutil.PendingRestaurant(t, "rst_2", "Taqueria Norte")

	api := testutil.NewFakePlatform()
	api.Pages[models.TablePendingRestaurants] = testutil.RestaurantPage(r1, r2)
	eng := New(api, NewCountCache(0))
	ctx := context.Background()

	if err := eng.LoadPage(ctx, models.TablePendingRestaurants, models.PageQuery{}); err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	eng.counts.Put(models.TableActiveRestaurants, "", 55)

	if _, err := eng.RecordTransition(models.TablePendingRestaurants, "rst_1", models.PendingTransition{
		NewStatus: models.StatusApproved, Field: models.FieldAddress,
	}); err != nil {
		t.Fatalf("RecordTransition: %v", err)
	}

	view, err := eng.GetEffectiveView(models.TablePendingRestaurants)
	if err != nil {
		t.Fatalf("GetEffectiveView: %v", err)
	}
	if got := view[0].Restaurant.Address.Status; got != models.StatusApproved {
		t.Errorf("projected rst_1 address = %q, want approved", got)
	}
	if got := view[1].Restaurant.Address.Status; got != models.StatusPending {
		t.Errorf("rst_2 was affected by rst_1's transition: address = %q", got)
	}

	if _, err := eng.Commit(ctx, models.TablePendingRestaurants); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if eng.HasUnsavedChanges(models.TablePendingRestaurants) {
		t.Error("ledger not empty after commit")
	}
	if _, ok := eng.counts.Get(models.TablePendingRestaurants, ""); ok {
		t.Error("pending-restaurants total survived the commit")
	}
	// rst_1 became fully approved, so the active total goes too.
	if _, ok := eng.counts.Get(models.TableActiveRestaurants, ""); ok {
		t.Error("active-restaurants total survived the commit")
	}
}

// A failed fetch keeps the previous page; no flash-to-empty.
func TestLoadPageFailureRetainsData(t *testing.T) {
	api := testutil.NewFakePlatform()
	api.Pages[models.TablePendingRestaurants] = testutil.RestaurantPage(testutil.PendingRestaurant(t, "rst_1", "Blue Door"))
	eng := New(api, NewCountCache(0))
	ctx := context.Background()

	if err := eng.LoadPage(ctx, models.TablePendingRestaurants, models.PageQuery{}); err != nil {
		t.Fatalf("LoadPage: %v", err)
	}

	api.FetchErr = errors.New("gateway timeout")
	if err := eng.LoadPage(ctx, models.TablePendingRestaurants, models.PageQuery{Page: 2}); err == nil {
		t.Fatal("LoadPage succeeded despite fetch error")
	}

	view, _ := eng.GetEffectiveView(models.TablePendingRestaurants)
	if len(view) != 1 {
		t.Errorf("previous page lost on fetch failure: %d rows", len(view))
	}
	if eng.LastError(models.TablePendingRestaurants) == "" {
		t.Error("fetch failure not surfaced on the session")
	}
}

func TestTotalUsesCacheUntilMiss(t *testing.T) {
	api := testutil.NewFakePlatform()
	api.CountsByKind[models.TablePendingVideos] = 17
	eng := New(api, NewCountCache(0))
	ctx := context.Background()

	total, cached, err := eng.Total(ctx, models.TablePendingVideos, "")
	if err != nil || total != 17 || cached {
		t.Fatalf("first Total = %d, cached=%v, err=%v; want 17, false, nil", total, cached, err)
	}

	total, cached, err = eng.Total(ctx, models.TablePendingVideos, "")
	if err != nil || total != 17 || !cached {
		t.Fatalf("second Total = %d, cached=%v, err=%v; want 17, true, nil", total, cached, err)
	}
	if api.CountCalls != 1 {
		t.Errorf("platform count called %d times, want 1", api.CountCalls)
	}

	eng.counts.Invalidate(models.TablePendingVideos)
	if _, cached, _ = eng.Total(ctx, models.TablePendingVideos, ""); cached {
		t.Error("Total reported a cache hit after invalidation")
	}
}

func TestRecordTransitionRejectsPendingStatus(t *testing.T) {
	eng := New(testutil.NewFakePlatform(), NewCountCache(0))

	if _, err := eng.RecordTransition(models.TablePendingRestaurants, "rst_1", models.PendingTransition{
		NewStatus: models.StatusPending, Field: models.FieldAddress,
	}); err == nil {
		t.Error("RecordTransition accepted a non-decision status")
	}
}

// Ledgers of different kinds must be fully isolated.
func TestKindsDoNotShareLedgers(t *testing.T) {
	api := testutil.NewFakePlatform()
	api.Pages[models.TablePendingRestaurants] = testutil.RestaurantPage(testutil.PendingRestaurant(t, "rst_1", "Blue Door"))
	eng := New(api, NewCountCache(0))
	if err := eng.LoadPage(context.Background(), models.TablePendingRestaurants, models.PageQuery{}); err != nil {
		t.Fatalf("LoadPage: %v", err)
	}

	if _, err := eng.RecordTransition(models.TablePendingRestaurants, "rst_1", models.PendingTransition{
		NewStatus: models.StatusApproved, Field: models.FieldAddress,
	}); err != nil {
		t.Fatalf("RecordTransition: %v", err)
	}

	if eng.HasUnsavedChanges(models.TablePendingVideos) {
		t.Error("a pending-restaurants intent leaked into the pending-videos ledger")
	}
}
