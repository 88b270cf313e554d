package models

import "testing"

func TestSplitChangeKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		entityID string
		field    string
		postID   string
		ok       bool
	}{
		{name: "address field", key: "rst_1-address", entityID: "rst_1", field: FieldAddress, ok: true},
		{name: "menu field", key: "rst_abc-menu", entityID: "rst_abc", field: FieldMenu, ok: true},
		{name: "reservation field", key: "rst_1-reservation", entityID: "rst_1", field: FieldReservation, ok: true},
		{name: "nested post", key: "rst_1-post-vid_9", entityID: "rst_1", postID: "vid_9", ok: true},
		{name: "entity id containing dashes", key: "rst-x-1-post-vid-2", entityID: "rst-x-1", postID: "vid-2", ok: true},
		{name: "unknown field", key: "rst_1-phone", ok: false},
		{name: "missing post id", key: "rst_1-post-", ok: false},
		{name: "bare id", key: "rst_1", ok: false},
		{name: "empty", key: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entityID, field, postID, ok := SplitChangeKey(tt.key)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if entityID != tt.entityID || field != tt.field || postID != tt.postID {
				t.Errorf("SplitChangeKey(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.key, entityID, field, postID, tt.entityID, tt.field, tt.postID)
			}
		})
	}
}

func TestKeyForRoundTrip(t *testing.T) {
	key, err := KeyFor("rst_1", PendingTransition{NewStatus: StatusApproved, Field: FieldMenu})
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	if key != "rst_1-menu" {
		t.Errorf("KeyFor field = %q, want rst_1-menu", key)
	}

	key, err = KeyFor("rst_1", PendingTransition{NewStatus: StatusRejected, PostID: "vid_2"})
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	if key != "rst_1-post-vid_2" {
		t.Errorf("KeyFor post = %q, want rst_1-post-vid_2", key)
	}

	if _, err := KeyFor("rst_1", PendingTransition{NewStatus: StatusApproved, Field: "owner"}); err == nil {
		t.Error("KeyFor accepted an unknown field")
	}
	if _, err := KeyFor("rst_1", PendingTransition{NewStatus: StatusApproved}); err == nil {
		t.Error("KeyFor accepted a transition without a target")
	}
}

func TestStatusUpdateChangeKey(t *testing.T) {
	u := StatusUpdate{EntityID: "rst_1", Field: FieldAddress, NewStatus: StatusApproved}
	if got := u.ChangeKey(); got != "rst_1-address" {
		t.Errorf("ChangeKey() = %q, want rst_1-address", got)
	}

	u = StatusUpdate{EntityID: "rst_1", PostID: "vid_4", NewStatus: StatusRejected}
	if got := u.ChangeKey(); got != "rst_1-post-vid_4" {
		t.Errorf("ChangeKey() = %q, want rst_1-post-vid_4", got)
	}
}
