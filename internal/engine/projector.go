package engine

import "gontrel-admin/internal/models"

// ProjectedEntity is one table row with pending transitions overlaid on the
// fetched server state, plus aggregate flags the UI uses for button state.
type ProjectedEntity struct {
	models.Entity
	HasPending  bool `json:"hasPending"`
	HasApproved bool `json:"hasApproved"`
	HasRejected bool `json:"hasRejected"`
}

// Project overlays the ledger onto a fetched page. Every row is deep-copied
// first: the fetched page is never mutated, so a discard cleanly falls back
// to server truth. A ledger entry fully overrides the server status for its
// change key; there is no merging.
func Project(entities []models.Entity, ledger *Ledger) []ProjectedEntity {
	out := make([]ProjectedEntity, 0, len(entities))
	for _, e := range entities {
		out = append(out, projectOne(e.Clone(), ledger))
	}
	return out
}

func projectOne(e models.Entity, ledger *Ledger) ProjectedEntity {
	p := ProjectedEntity{Entity: e}

	if r := e.Restaurant; r != nil {
		for _, name := range models.RestaurantFields {
			f := r.Field(name)
			if tr, ok := ledger.Get(models.FieldKey(r.ID, name)); ok {
				f.Status = tr.NewStatus
				if tr.Comment != "" {
					f.Comment = tr.Comment
				}
			}
			p.note(f.Status)
		}
		for i := range r.Posts {
			post := &r.Posts[i]
			if tr, ok := ledger.Get(post.ChangeKey()); ok {
				post.Status = tr.NewStatus
				if tr.Comment != "" {
					post.Comment = tr.Comment
				}
			}
			p.note(post.Status)
		}
		return p
	}

	if v := e.Video; v != nil {
		if tr, ok := ledger.Get(v.ChangeKey()); ok {
			v.Status = tr.NewStatus
			if tr.Comment != "" {
				v.Comment = tr.Comment
			}
		}
		p.note(v.Status)
	}
	return p
}

func (p *ProjectedEntity) note(s models.Status) {
	switch s {
	case models.StatusPending:
		p.HasPending = true
	case models.StatusApproved:
		p.HasApproved = true
	case models.StatusRejected:
		p.HasRejected = true
	}
}
