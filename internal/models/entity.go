package models

// Entity is one moderation table row: a restaurant in the restaurant queues
// or a video post in the video queues. Exactly one variant is set.
type Entity struct {
	Restaurant *Restaurant `json:"restaurant,omitempty"`
	Video      *VideoPost  `json:"video,omitempty"`
}

// RestaurantEntity wraps a restaurant as a table row.
func RestaurantEntity(r *Restaurant) Entity {
	return Entity{Restaurant: r}
}

// VideoEntity wraps a video post as a table row.
func VideoEntity(v *VideoPost) Entity {
	return Entity{Video: v}
}

// ID returns the row's entity ID, independent of the variant.
func (e Entity) ID() string {
	switch {
	case e.Restaurant != nil:
		return e.Restaurant.ID
	case e.Video != nil:
		return e.Video.ID
	}
	return ""
}

// Clone deep-copies the row so projections never alias fetched data.
func (e Entity) Clone() Entity {
	switch {
	case e.Restaurant != nil:
		return Entity{Restaurant: e.Restaurant.Clone()}
	case e.Video != nil:
		return Entity{Video: e.Video.Clone()}
	}
	return Entity{}
}

// HasChangeKey reports whether the given change key resolves to a field or
// post of this row. Used to prune orphaned ledger entries after a refetch.
func (e Entity) HasChangeKey(key string) bool {
	entityID, field, postID, ok := SplitChangeKey(key)
	if !ok {
		return false
	}
	if r := e.Restaurant; r != nil && r.ID == entityID {
		if field != "" {
			return r.Field(field) != nil
		}
		return r.Post(postID) != nil
	}
	if v := e.Video; v != nil && postID != "" {
		return v.RestaurantID == entityID && v.ID == postID
	}
	return false
}
