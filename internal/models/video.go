package models

import "time"

// VideoPost is a user-submitted video tied to a restaurant. In the video
// queues it is a row of its own; inside a restaurant it is a nested
// sub-entity with an independent status.
type VideoPost struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Status       Status `json:"status"`
	Comment      string `json:"comment,omitempty"`

	SubmitterName  string    `json:"submitter_name,omitempty"`
	SubmitterEmail string    `json:"submitter_email,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// ChangeKey returns the key a transition against this post uses.
func (v *VideoPost) ChangeKey() string {
	return PostKey(v.RestaurantID, v.ID)
}

// Clone returns a copy of the post.
func (v *VideoPost) Clone() *VideoPost {
	cp := *v
	return &cp
}
