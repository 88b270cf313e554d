package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gontrel-admin/internal/db"
	"gontrel-admin/internal/email"
	"gontrel-admin/internal/engine"
	"gontrel-admin/internal/handlers"
	"gontrel-admin/internal/handlers/api"
	"gontrel-admin/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, workspaces *engine.Registry, platform engine.PlatformAPI, notifier *email.Notifier) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(s.Cfg, workspaces)
	queueHandler := api.NewQueueHandler(workspaces, database, notifier)
	staffHandler := api.NewStaffHandler(database)
	healthzHandler := api.NewHealthzHandler(database, platform)

	// Auth routes - OIDC is always required for staff access
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All staff must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database, workspaces)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)
	s.App.Get("/login", pageHandler.Login)

	// Dashboard
	s.App.Get("/", authMiddleware.RequireAuth, pageHandler.Dashboard)

	// Queue API. Reads need any authenticated staff account; staging and
	// saving decisions need the moderator role.
	s.App.Get("/api/queues/:kind", authMiddleware.RequireAuth, queueHandler.GetPage)
	s.App.Get("/api/queues/:kind/count", authMiddleware.RequireAuth, queueHandler.GetCount)
	s.App.Post("/api/queues/:kind/transitions", authMiddleware.RequireAuth, authMiddleware.RequireModerator, queueHandler.RecordTransition)
	s.App.Post("/api/queues/:kind/save", authMiddleware.RequireAuth, authMiddleware.RequireModerator, queueHandler.Save)
	s.App.Post("/api/queues/:kind/discard", authMiddleware.RequireAuth, authMiddleware.RequireModerator, queueHandler.Discard)
	s.App.Post("/api/queues/:kind/selection", authMiddleware.RequireAuth, queueHandler.SetSelection)
	s.App.Get("/api/audit/:entityId", authMiddleware.RequireAuth, queueHandler.GetAudit)

	// Staff administration (admin only)
	s.App.Get("/api/staff", authMiddleware.RequireAuth, authMiddleware.RequireAdmin, staffHandler.List)
	s.App.Post("/api/staff/:id/role", authMiddleware.RequireAuth, authMiddleware.RequireAdmin, staffHandler.UpdateRole)
	s.App.Post("/api/staff/:id/active", authMiddleware.RequireAuth, authMiddleware.RequireAdmin, staffHandler.SetActive)

	// Operational endpoints
	s.App.Get("/healthz", healthzHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
