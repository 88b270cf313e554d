package models

import "time"

// ApprovableField is a restaurant sub-attribute that carries its own
// approval status, e.g. the address, the menu link, or the reservation link.
type ApprovableField struct {
	Content string `json:"content"`
	Status  Status `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// Restaurant is a restaurant listing under moderation. Its three approvable
// fields and its video posts are each approved or rejected independently.
type Restaurant struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Address     ApprovableField `json:"address"`
	Menu        ApprovableField `json:"menu"`
	Reservation ApprovableField `json:"reservation"`
	Posts       []VideoPost     `json:"posts,omitempty"`

	SubmitterName  string    `json:"submitter_name,omitempty"`
	SubmitterEmail string    `json:"submitter_email,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Field returns a pointer to the named approvable field, or nil for an
// unknown name.
func (r *Restaurant) Field(name string) *ApprovableField {
	switch name {
	case FieldAddress:
		return &r.Address
	case FieldMenu:
		return &r.Menu
	case FieldReservation:
		return &r.Reservation
	}
	return nil
}

// Post returns a pointer to the post with the given ID, or nil.
func (r *Restaurant) Post(postID string) *VideoPost {
	for i := range r.Posts {
		if r.Posts[i].ID == postID {
			return &r.Posts[i]
		}
	}
	return nil
}

// FullyApproved reports whether every field and every post is approved.
// A restaurant in this state is eligible to go live.
func (r *Restaurant) FullyApproved() bool {
	for _, f := range RestaurantFields {
		if r.Field(f).Status != StatusApproved {
			return false
		}
	}
	for i := range r.Posts {
		if r.Posts[i].Status != StatusApproved {
			return false
		}
	}
	return true
}

// Clone returns a deep copy. Projections work on copies so discarding
// pending changes falls back to the fetched server state untouched.
func (r *Restaurant) Clone() *Restaurant {
	cp := *r
	if r.Posts != nil {
		cp.Posts = make([]VideoPost, len(r.Posts))
		copy(cp.Posts, r.Posts)
	}
	return &cp
}
