package models

// Status is the approval state of an entity or one of its approvable fields.
// The platform API is the authority on which transitions are legal; the
// back-office only records intents and submits them.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is a reviewer decision (the only statuses a
// pending transition may carry).
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// TableKind identifies one of the parallel moderation queues. Each kind has
// its own table session and ledger; active-restaurants exists only as a
// count dimension.
type TableKind string

const (
	TablePendingRestaurants   TableKind = "pending-restaurants"
	TablePendingVideos        TableKind = "pending-videos"
	TableSubmittedRestaurants TableKind = "submitted-restaurants"
	TableSubmittedVideos      TableKind = "submitted-videos"
	TableActiveRestaurants    TableKind = "active-restaurants"
)

// QueueKinds lists the kinds that back an actual moderation table.
func QueueKinds() []TableKind {
	return []TableKind{
		TablePendingRestaurants,
		TablePendingVideos,
		TableSubmittedRestaurants,
		TableSubmittedVideos,
	}
}

// IsQueue reports whether k is a moderation table kind (as opposed to a
// count-only kind like active-restaurants).
func (k TableKind) IsQueue() bool {
	switch k {
	case TablePendingRestaurants, TablePendingVideos, TableSubmittedRestaurants, TableSubmittedVideos:
		return true
	}
	return false
}

// IsVideoKind reports whether pages of this kind contain video posts rather
// than restaurants.
func (k TableKind) IsVideoKind() bool {
	return k == TablePendingVideos || k == TableSubmittedVideos
}

// ParseTableKind converts a route parameter into a known TableKind,
// including count-only kinds. Callers that need an actual moderation table
// must additionally check IsQueue.
func ParseTableKind(s string) (TableKind, bool) {
	k := TableKind(s)
	if k.IsQueue() || k == TableActiveRestaurants {
		return k, true
	}
	return "", false
}
