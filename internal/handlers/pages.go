package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"gontrel-admin/internal/config"
	"gontrel-admin/internal/engine"
	"gontrel-admin/internal/models"
)

// PageHandler renders the server-side pages. The moderation tables
// themselves are driven by the JSON API; these pages are the shell around
// them.
type PageHandler struct {
	cfg        *config.Config
	workspaces *engine.Registry
}

// NewPageHandler creates a new page handler.
func NewPageHandler(cfg *config.Config, workspaces *engine.Registry) *PageHandler {
	return &PageHandler{cfg: cfg, workspaces: workspaces}
}

// Dashboard renders the moderation dashboard with one tab per queue.
func (h *PageHandler) Dashboard(c fiber.Ctx) error {
	staff, _ := c.Locals("staff").(*models.StaffUser)

	var dirty []models.TableKind
	if sess := session.FromContext(c); sess != nil {
		dirty = h.workspaces.DirtyKinds(sess.ID())
	}

	return c.Render("dashboard", fiber.Map{
		"Staff":      staff,
		"Queues":     models.QueueKinds(),
		"DirtyKinds": dirty,
	})
}

// Login renders the login page.
func (h *PageHandler) Login(c fiber.Ctx) error {
	// Already signed in
	if sess := session.FromContext(c); sess != nil {
		if sub, _ := sess.Get("staff_sub").(string); sub != "" {
			return c.Redirect().To("/")
		}
	}
	return c.Render("login", fiber.Map{})
}
