package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"gontrel-admin/internal/db"
	"gontrel-admin/internal/email"
	"gontrel-admin/internal/engine"
	"gontrel-admin/internal/metrics"
	"gontrel-admin/internal/models"
	"gontrel-admin/internal/validation"
)

// QueueHandler serves the moderation queue API. Each staff session gets its
// own workspace from the registry, so reviewers never see each other's
// uncommitted changes.
type QueueHandler struct {
	workspaces *engine.Registry
	db         *db.DB
	notifier   *email.Notifier
}

// NewQueueHandler creates a new queue handler.
func NewQueueHandler(workspaces *engine.Registry, database *db.DB, notifier *email.Notifier) *QueueHandler {
	return &QueueHandler{workspaces: workspaces, db: database, notifier: notifier}
}

func (h *QueueHandler) engineFor(c fiber.Ctx) (*engine.Engine, error) {
	sess := session.FromContext(c)
	if sess == nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	return h.workspaces.ForSession(sess.ID()), nil
}

func queueKind(c fiber.Ctx) (models.TableKind, error) {
	kind, ok := models.ParseTableKind(c.Params("kind"))
	if !ok || !kind.IsQueue() {
		return "", errors.New("unknown queue kind")
	}
	return kind, nil
}

// GetPage loads a page of the requested queue and returns the effective view:
// server rows with the reviewer's pending decisions overlaid.
func (h *QueueHandler) GetPage(c fiber.Ctx) error {
	kind, err := queueKind(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	eng, err := h.engineFor(c)
	if err != nil {
		return err
	}

	q := models.PageQuery{
		Page:       fiber.Query(c, "page", 1),
		PageSize:   fiber.Query(c, "pageSize", engine.DefaultPageSize),
		SearchTerm: validation.NormalizeSearchTerm(c.Query("q", "")),
	}
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "startDate must be YYYY-MM-DD")
		}
		q.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "endDate must be YYYY-MM-DD")
		}
		q.EndDate = &t
	}

	if err := eng.LoadPage(c.Context(), kind, q); err != nil {
		slog.Error("queue page load failed", "kind", kind, "error", err)
		// Stale rows are still served so the reviewer keeps their work.
	}

	view, err := eng.GetEffectiveView(kind)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to build view")
	}

	ts, err := eng.Session(kind)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to open table session")
	}

	return jsonSuccess(c, fiber.Map{
		"items":             view,
		"pagination":        ts.Pagination(),
		"selected":          ts.Selected(),
		"hasUnsavedChanges": ts.HasUnsavedChanges(),
		"isSaving":          ts.IsSaving(),
		"lastError":         ts.LastError(),
	})
}

// GetCount returns the total row count for a table kind, served from the
// shared cache when fresh.
func (h *QueueHandler) GetCount(c fiber.Ctx) error {
	kind, ok := models.ParseTableKind(c.Params("kind"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "unknown queue kind")
	}

	eng, err := h.engineFor(c)
	if err != nil {
		return err
	}

	term := validation.NormalizeSearchTerm(c.Query("q", ""))
	total, cached, err := eng.Total(c.Context(), kind, term)
	metrics.RecordCountLookup(cached)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "failed to fetch total")
	}

	return jsonSuccess(c, fiber.Map{
		"kind":   kind,
		"total":  total,
		"cached": cached,
	})
}

// RecordTransition stages a pending status decision in the reviewer's
// workspace. Nothing is sent to the platform until save.
func (h *QueueHandler) RecordTransition(c fiber.Ctx) error {
	kind, err := queueKind(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var body struct {
		EntityID string `json:"entityId"`
		Status   string `json:"status"`
		Field    string `json:"field"`
		PostID   string `json:"postId"`
		Comment  string `json:"comment"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.EntityID == "" {
		return jsonError(c, fiber.StatusBadRequest, "entityId is required")
	}

	status := models.Status(body.Status)
	if ok, msg := validation.ValidateDecision(status); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if ok, msg := validation.ValidateComment(body.Comment); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	eng, err := h.engineFor(c)
	if err != nil {
		return err
	}

	key, err := eng.RecordTransition(kind, body.EntityID, models.PendingTransition{
		NewStatus: status,
		Field:     body.Field,
		PostID:    body.PostID,
		Comment:   body.Comment,
	})
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	return jsonSuccess(c, fiber.Map{
		"changeKey":         key,
		"hasUnsavedChanges": true,
	})
}

// Save commits every pending change for the kind to the platform. Entries
// that fail stay pending so the reviewer can retry just those.
func (h *QueueHandler) Save(c fiber.Ctx) error {
	kind, err := queueKind(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	eng, err := h.engineFor(c)
	if err != nil {
		return err
	}

	staff, _ := c.Locals("staff").(*models.StaffUser)

	committed, commitErr := eng.Commit(c.Context(), kind)

	for _, ch := range committed {
		metrics.RecordCommittedChange(string(ch.Kind), string(ch.NewStatus))
	}

	if len(committed) > 0 {
		if staff != nil {
			if err := h.db.RecordCommit(c.Context(), staff.ID, committed); err != nil {
				slog.Error("failed to record moderation audit", "kind", kind, "error", err)
			}
		}
		h.notifyRejections(eng, kind, committed)
	}

	if commitErr != nil {
		var ce *engine.CommitError
		switch {
		case errors.Is(commitErr, engine.ErrCommitInFlight):
			metrics.RecordCommit(string(kind), "in_flight")
			return jsonError(c, fiber.StatusConflict, "a save is already in progress for this queue")
		case errors.Is(commitErr, engine.ErrWorkspaceReset):
			metrics.RecordCommit(string(kind), "reset")
			return jsonError(c, fiber.StatusConflict, "workspace was reset while saving")
		case errors.As(commitErr, &ce):
			metrics.RecordCommit(string(kind), "partial")
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"status":     "error",
				"error":      ce.Error(),
				"committed":  len(committed),
				"failedKeys": ce.FailedKeys(),
			})
		default:
			metrics.RecordCommit(string(kind), "failed")
			return jsonError(c, fiber.StatusBadGateway, "save failed")
		}
	}

	metrics.RecordCommit(string(kind), "committed")
	return jsonSuccess(c, fiber.Map{
		"committed":         len(committed),
		"hasUnsavedChanges": eng.HasUnsavedChanges(kind),
	})
}

// Discard drops every pending change for the kind, restoring server truth.
func (h *QueueHandler) Discard(c fiber.Ctx) error {
	kind, err := queueKind(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	eng, err := h.engineFor(c)
	if err != nil {
		return err
	}

	if err := eng.Discard(kind); err != nil {
		if errors.Is(err, engine.ErrCommitInFlight) {
			return jsonError(c, fiber.StatusConflict, "cannot discard while a save is in progress")
		}
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	return jsonSuccess(c, fiber.Map{"hasUnsavedChanges": false})
}

// SetSelection replaces the row selection for the kind. Selection is UI
// state only and never touches the pending ledger.
func (h *QueueHandler) SetSelection(c fiber.Ctx) error {
	kind, err := queueKind(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	eng, err := h.engineFor(c)
	if err != nil {
		return err
	}

	ts, err := eng.Session(kind)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to open table session")
	}

	if len(body.IDs) == 0 {
		ts.ClearSelection()
	} else {
		ts.SelectRows(body.IDs)
	}

	return jsonSuccess(c, fiber.Map{"selected": ts.Selected()})
}

// GetAudit returns the moderation audit trail for an entity.
func (h *QueueHandler) GetAudit(c fiber.Ctx) error {
	entityID := c.Params("entityId")
	if entityID == "" {
		return jsonError(c, fiber.StatusBadRequest, "entityId is required")
	}

	entries, err := h.db.ListAuditEntries(c.Context(), entityID, fiber.Query(c, "limit", 50))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch audit trail")
	}

	return jsonSuccess(c, entries)
}

// notifyRejections emails submitters whose content was rejected. The table
// rows still hold the pre-commit entities, which carry the contact details.
func (h *QueueHandler) notifyRejections(eng *engine.Engine, kind models.TableKind, committed []models.CommittedChange) {
	if h.notifier == nil {
		return
	}
	view, err := eng.GetEffectiveView(kind)
	if err != nil {
		return
	}
	entities := make([]models.Entity, 0, len(view))
	for _, p := range view {
		entities = append(entities, p.Entity)
	}
	h.notifier.NotifyRejections(committed, entities)
}
