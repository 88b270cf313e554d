package models

import (
	"fmt"
	"strings"
	"time"
)

// Field names a restaurant's approvable sub-attribute.
const (
	FieldAddress     = "address"
	FieldMenu        = "menu"
	FieldReservation = "reservation"
)

// RestaurantFields is the complete, ordered set of approvable restaurant
// fields. The projector iterates this set; nothing scans arbitrary shapes.
var RestaurantFields = []string{FieldAddress, FieldMenu, FieldReservation}

// postKeySep separates the entity ID from a nested post ID in a change key.
const postKeySep = "-post-"

// PendingTransition is a client-side status intent that has not been
// committed to the platform yet. Exactly one of Field or PostID is set.
type PendingTransition struct {
	NewStatus Status `json:"newStatus"`
	Field     string `json:"field,omitempty"`
	PostID    string `json:"postId,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// FieldKey builds the change key for a field-level transition,
// e.g. "rst_123-address".
func FieldKey(entityID, field string) string {
	return entityID + "-" + field
}

// PostKey builds the change key for a nested post transition,
// e.g. "rst_123-post-vid_456".
func PostKey(entityID, postID string) string {
	return entityID + postKeySep + postID
}

// SplitChangeKey decomposes a change key into its entity ID and either a
// field name or a post ID. It is the inverse of FieldKey/PostKey.
func SplitChangeKey(key string) (entityID, field, postID string, ok bool) {
	if i := strings.Index(key, postKeySep); i > 0 {
		entityID = key[:i]
		postID = key[i+len(postKeySep):]
		if postID == "" {
			return "", "", "", false
		}
		return entityID, "", postID, true
	}
	for _, f := range RestaurantFields {
		suffix := "-" + f
		if strings.HasSuffix(key, suffix) && len(key) > len(suffix) {
			return strings.TrimSuffix(key, suffix), f, "", true
		}
	}
	return "", "", "", false
}

// KeyFor derives the change key a transition targets on the given entity.
func KeyFor(entityID string, tr PendingTransition) (string, error) {
	switch {
	case tr.PostID != "":
		return PostKey(entityID, tr.PostID), nil
	case tr.Field != "":
		for _, f := range RestaurantFields {
			if tr.Field == f {
				return FieldKey(entityID, tr.Field), nil
			}
		}
		return "", fmt.Errorf("unknown approvable field %q", tr.Field)
	default:
		return "", fmt.Errorf("transition must target a field or a post")
	}
}

// StatusUpdate is one remote status mutation, derived from a single ledger
// entry at commit time.
type StatusUpdate struct {
	EntityID  string `json:"entityId"`
	Field     string `json:"field,omitempty"`
	PostID    string `json:"postId,omitempty"`
	NewStatus Status `json:"status"`
	Comment   string `json:"comment,omitempty"`
}

// ChangeKey returns the ledger key this update originated from.
func (u StatusUpdate) ChangeKey() string {
	if u.PostID != "" {
		return PostKey(u.EntityID, u.PostID)
	}
	return FieldKey(u.EntityID, u.Field)
}

// CommittedChange records one successfully applied status update, for the
// audit trail and submitter notifications.
type CommittedChange struct {
	Kind        TableKind `json:"kind"`
	ChangeKey   string    `json:"changeKey"`
	EntityID    string    `json:"entityId"`
	Field       string    `json:"field,omitempty"`
	PostID      string    `json:"postId,omitempty"`
	NewStatus   Status    `json:"newStatus"`
	Comment     string    `json:"comment,omitempty"`
	CommittedAt time.Time `json:"committedAt"`
}
