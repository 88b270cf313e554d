package email

import (
	"log"

	"gontrel-admin/internal/config"
	"gontrel-admin/internal/models"
)

// Notifier sends email notifications for moderation outcomes.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
	}
}

// NotifyRejections emails each submitter whose content was rejected in a
// committed batch. Entities provide the submitter contact details; changes
// that were not rejections, or whose submitter has no email on file, are
// skipped.
func (n *Notifier) NotifyRejections(committed []models.CommittedChange, entities []models.Entity) {
	if !n.service.IsEnabled() {
		return
	}

	type rejection struct {
		name  string
		items []models.CommittedChange
	}
	bySubmitter := make(map[string]*rejection)

	for _, ch := range committed {
		if ch.NewStatus != models.StatusRejected {
			continue
		}
		name, addr := submitterFor(entities, ch)
		if addr == "" {
			continue
		}
		r, ok := bySubmitter[addr]
		if !ok {
			r = &rejection{name: name}
			bySubmitter[addr] = r
		}
		r.items = append(r.items, ch)
	}

	for addr, r := range bySubmitter {
		subject, htmlBody, textBody := n.templates.SubmissionRejected(r.name, r.items)
		n.service.SendAsync([]string{addr}, subject, htmlBody, textBody)
	}

	if len(bySubmitter) > 0 {
		log.Printf("Queued rejection notifications for %d submitter(s)", len(bySubmitter))
	}
}

// submitterFor resolves the submitter contact for a committed change. Video
// changes prefer the post's own submitter over the restaurant's.
func submitterFor(entities []models.Entity, ch models.CommittedChange) (name, addr string) {
	for _, e := range entities {
		if e.ID() != ch.EntityID {
			continue
		}
		switch {
		case e.Video != nil:
			return e.Video.SubmitterName, e.Video.SubmitterEmail
		case e.Restaurant != nil:
			if ch.PostID != "" {
				if p := e.Restaurant.Post(ch.PostID); p != nil && p.SubmitterEmail != "" {
					return p.SubmitterName, p.SubmitterEmail
				}
			}
			return e.Restaurant.SubmitterName, e.Restaurant.SubmitterEmail
		}
	}
	return "", ""
}
