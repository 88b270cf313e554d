package engine

import (
	"reflect"
	"testing"

	"gontrel-admin/internal/models"
	"gontrel-admin/internal/testutil"
)

// An empty ledger must project the fetched page unchanged.
func TestProjectIdentityWithoutPendingChanges(t *testing.T) {
	r1 := testutil.PendingRestaurant(t, "rst_1", "Blue Door", "vid_1")
	r2 := testutil.PendingRestaurant(t, "rst_2", "Taqueria Norte")
	entities := []models.Entity{models.RestaurantEntity(r1), models.RestaurantEntity(r2)}

	projected := Project(entities, NewLedger())

	if len(projected) != 2 {
		t.Fatalf("Project() returned %d rows, want 2", len(projected))
	}
	for i, p := range projected {
		if !reflect.DeepEqual(p.Entity, entities[i]) {
			t.Errorf("row %d: projection differs from fetched entity without ledger entries", i)
		}
		if p.HasApproved || p.HasRejected {
			t.Errorf("row %d: aggregate flags %+v, want pending only", i, p)
		}
		if !p.HasPending {
			t.Errorf("row %d: HasPending = false, want true", i)
		}
	}
}

// A ledger entry overrides the server status for its key; everything else
// keeps the fetched value.
func TestProjectOverrideNotMerge(t *testing.T) {
	r := testutil.PendingRestaurant(t, "rst_1", "Blue Door")
	r.Address.Status = models.StatusApproved

	ledger := NewLedger()
	ledger.Set(models.FieldKey("rst_1", models.FieldAddress), models.PendingTransition{
		NewStatus: models.StatusRejected,
		Field:     models.FieldAddress,
		Comment:   "not a real address",
	})

	projected := Project([]models.Entity{models.RestaurantEntity(r)}, ledger)
	got := projected[0].Restaurant

	if got.Address.Status != models.StatusRejected {
		t.Errorf("address status = %q, want %q", got.Address.Status, models.StatusRejected)
	}
	if got.Address.Comment != "not a real address" {
		t.Errorf("address comment = %q, want the pending comment", got.Address.Comment)
	}
	if got.Menu.Status != models.StatusPending || got.Reservation.Status != models.StatusPending {
		t.Error("untouched fields must keep their fetched status")
	}
	// The fetched page must be untouched.
	if r.Address.Status != models.StatusApproved {
		t.Errorf("source address status mutated to %q", r.Address.Status)
	}
}

func TestProjectNestedPostOverlay(t *testing.T) {
	r := testutil.PendingRestaurant(t, "rst_1", "Blue Door", "vid_1", "vid_2")

	ledger := NewLedger()
	ledger.Set(models.PostKey("rst_1", "vid_2"), models.PendingTransition{
		NewStatus: models.StatusApproved,
		PostID:    "vid_2",
	})

	projected := Project([]models.Entity{models.RestaurantEntity(r)}, ledger)
	posts := projected[0].Restaurant.Posts

	if posts[0].Status != models.StatusPending {
		t.Errorf("vid_1 status = %q, want pending", posts[0].Status)
	}
	if posts[1].Status != models.StatusApproved {
		t.Errorf("vid_2 status = %q, want approved", posts[1].Status)
	}
	if r.Posts[1].Status != models.StatusPending {
		t.Error("projection wrote through to the fetched post")
	}
	if !projected[0].HasApproved || !projected[0].HasPending {
		t.Errorf("aggregate flags = %+v, want HasApproved and HasPending", projected[0])
	}
}

func TestProjectVideoRow(t *testing.T) {
	v := testutil.PendingVideo(t, "vid_7", "rst_3")

	ledger := NewLedger()
	ledger.Set(v.ChangeKey(), models.PendingTransition{NewStatus: models.StatusRejected, PostID: "vid_7"})

	projected := Project([]models.Entity{models.VideoEntity(v)}, ledger)

	if got := projected[0].Video.Status; got != models.StatusRejected {
		t.Errorf("video status = %q, want rejected", got)
	}
	if !projected[0].HasRejected || projected[0].HasPending {
		t.Errorf("aggregate flags = %+v, want rejected only", projected[0])
	}
}

func TestProjectEmptyPage(t *testing.T) {
	if got := Project(nil, NewLedger()); len(got) != 0 {
		t.Errorf("Project(nil) returned %d rows, want 0", len(got))
	}
}
