package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"gontrel-admin/internal/db"
	"gontrel-admin/internal/models"
)

// AuthMiddleware handles staff authentication via sessions.
type AuthMiddleware struct {
	db *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{db: database}
}

// RequireAuth ensures the staff user is authenticated. API routes get a
// 401 JSON body; page routes are redirected to /login.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return m.deny(c)
	}

	sub, _ := sess.Get("staff_sub").(string)
	if sub == "" {
		return m.deny(c)
	}

	staff, err := m.db.GetStaffBySub(c.Context(), sub)
	if err != nil {
		sess.Destroy()
		return m.deny(c)
	}

	c.Locals("staff", staff)
	return c.Next()
}

// RequireModerator ensures the authenticated staff user may record and
// commit status changes. Must run after RequireAuth.
func (m *AuthMiddleware) RequireModerator(c fiber.Ctx) error {
	staff, ok := c.Locals("staff").(*models.StaffUser)
	if !ok {
		return m.deny(c)
	}
	if !staff.CanModerate() {
		return fiber.NewError(fiber.StatusForbidden, "moderator access required")
	}
	return c.Next()
}

// RequireAdmin ensures the authenticated staff user is an admin. Must run
// after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	staff, ok := c.Locals("staff").(*models.StaffUser)
	if !ok {
		return m.deny(c)
	}
	if !staff.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}

func (m *AuthMiddleware) deny(c fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api") {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return c.Redirect().To("/login")
}
