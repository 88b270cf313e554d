package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gontrel-admin/internal/config"
	"gontrel-admin/internal/db"
	"gontrel-admin/internal/email"
	"gontrel-admin/internal/engine"
	"gontrel-admin/internal/gontrel"
	"gontrel-admin/internal/jobs"
	"gontrel-admin/internal/metrics"
	"gontrel-admin/internal/server"
)

const janitorInterval = 5 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Platform client and per-session moderation workspaces
	platform := gontrel.NewClient(cfg.PlatformAPIURL, cfg.PlatformAPIKey)
	counts := engine.NewCountCache(cfg.CountCacheTTL)
	workspaces := engine.NewRegistry(platform, counts)

	metrics.Init(workspaces)

	notifier := email.NewNotifier(cfg)

	// Background jobs
	go jobs.NewJanitor(workspaces, janitorInterval, cfg.WorkspaceMaxIdle).Start(ctx)
	if cfg.PrewarmInterval > 0 {
		go jobs.NewPrewarmer(platform, counts, cfg.PrewarmInterval).Start(ctx)
	}

	// HTTP server
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, workspaces, platform, notifier); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
