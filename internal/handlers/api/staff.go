package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"gontrel-admin/internal/db"
	"gontrel-admin/internal/models"
	"gontrel-admin/internal/validation"
)

// StaffHandler handles staff account administration. All routes are
// admin-gated by middleware.
type StaffHandler struct {
	db *db.DB
}

// NewStaffHandler creates a new staff admin handler.
func NewStaffHandler(database *db.DB) *StaffHandler {
	return &StaffHandler{db: database}
}

// List returns all staff accounts.
func (h *StaffHandler) List(c fiber.Ctx) error {
	staff, err := h.db.ListStaff(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch staff")
	}
	return jsonSuccess(c, staff)
}

// UpdateRole changes a staff account's role.
func (h *StaffHandler) UpdateRole(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid staff id")
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateRole(body.Role) {
		return jsonError(c, fiber.StatusBadRequest, "role must be viewer, moderator, or admin")
	}

	// Admins cannot demote themselves; it would lock everyone out of this page.
	if actor, ok := c.Locals("staff").(*models.StaffUser); ok && actor.ID == id && body.Role != models.RoleAdmin {
		return jsonError(c, fiber.StatusBadRequest, "cannot change your own admin role")
	}

	if err := h.db.UpdateStaffRole(c.Context(), id, body.Role); err != nil {
		if errors.Is(err, db.ErrStaffNotFound) {
			return jsonError(c, fiber.StatusNotFound, "staff member not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update role")
	}

	return jsonSuccess(c, fiber.Map{"id": id, "role": body.Role})
}

// SetActive activates or deactivates a staff account. Deactivated accounts
// fail auth on their next request.
func (h *StaffHandler) SetActive(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid staff id")
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if actor, ok := c.Locals("staff").(*models.StaffUser); ok && actor.ID == id && !body.Active {
		return jsonError(c, fiber.StatusBadRequest, "cannot deactivate your own account")
	}

	if err := h.db.SetStaffActive(c.Context(), id, body.Active); err != nil {
		if errors.Is(err, db.ErrStaffNotFound) {
			return jsonError(c, fiber.StatusNotFound, "staff member not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update account")
	}

	return jsonSuccess(c, fiber.Map{"id": id, "active": body.Active})
}
