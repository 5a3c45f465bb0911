// cmd/api/main.go
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"media-editor/internal/config"
	"media-editor/internal/editor"
	"media-editor/internal/handler"
	"media-editor/internal/logging"
	"media-editor/internal/rpc"
	"media-editor/internal/service"
	"media-editor/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	logger := logging.New(cfg.LogLevel)
	log := logger.WithField("service", "media-editor")

	if err := cfg.CheckProduction(); err != nil {
		log.WithError(err).Fatal("Invalid production configuration")
	}

	// ── Sessions: Postgres when DATABASE_URL is set, memory otherwise ────────
	var (
		sessionStore service.SessionStore
		db           *sql.DB
	)
	if cfg.DatabaseURL != "" {
		db, err = service.OpenPostgres(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("Database ping failed")
		}
		defer db.Close()

		// Connection pool: keeps concurrent load from overwhelming the DB
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		pg := &service.PostgresStore{DB: db}
		if err := pg.Migrate(context.Background()); err != nil {
			log.WithError(err).Fatal("Failed to create sessions table")
		}
		sessionStore = pg
		log.Info("Using Postgres session store")
	} else {
		sessionStore = service.NewMemoryStore()
		log.Warn("DATABASE_URL not set, sessions are kept in memory")
	}

	// ── Storage (swappable: local or S3) ──────────────────────────────────────
	var fileStorage storage.Storage
	if cfg.StorageType == "s3" {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.AWSBucket, cfg.AWSRegion)
		if err != nil {
			log.WithError(err).Fatal("Failed to set up S3 storage")
		}
		log.WithField("bucket", cfg.AWSBucket).Info("Using S3 storage")
	} else {
		fileStorage, err = storage.NewLocalStorage(cfg.UploadDir, cfg.BaseURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to set up local storage")
		}
		log.WithField("upload_dir", cfg.UploadDir).Info("Using local storage")
	}

	// ── Services & Handlers ───────────────────────────────────────────────────
	sessionService := service.NewSessionService(sessionStore, log)
	workspaceService := service.NewWorkspaceService(fileStorage,
		service.StaticHandlers(cfg.StrategyHandlers), cfg.ServerProperties(), log)

	if cfg.WorkspaceServiceURL != "" {
		log.WithField("url", cfg.WorkspaceServiceURL).Info("Using remote workspace service")
	}

	registry := handler.NewRegistry(func(user uuid.UUID, username string, entry *logrus.Entry) editor.Env {
		// The remote service checks X-User-ID, so each session calls it as its own user.
		var workspace rpc.Workspace = workspaceService
		if cfg.WorkspaceServiceURL != "" {
			workspace = rpc.NewClient(cfg.WorkspaceServiceURL, user)
		}
		return editor.Env{
			Workspace:    workspace,
			Properties:   workspaceService,
			Log:          entry,
			Username:     username,
			CourseFolder: cfg.CourseFolder,
		}
	}, cfg.SessionIdleTimeout, log)
	defer registry.CloseAll()

	r := handler.NewRouter(
		&handler.EditorHandler{Service: sessionService, Registry: registry},
		&handler.WorkspaceHandler{Service: workspaceService, Storage: fileStorage, CourseFolder: cfg.CourseFolder},
		log,
	)

	// Health check for load balancers and liveness checks
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, `{"status":"unhealthy"}`, http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET").Name("health")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET").Name("metrics")

	// Serve local uploads. With S3 the bucket serves files directly.
	if cfg.StorageType != "s3" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))),
		).Name("uploads")
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		// X-User-ID is injected by the API gateway in production
		handlers.AllowedHeaders([]string{"Content-Type", "X-User-ID", "X-Username", "X-Request-Id", "Authorization"}),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      cors(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // uploads need the longer write window
		IdleTimeout:  60 * time.Second,
	}

	// ── Graceful Shutdown ──────────────────────────────────────────────────────
	// On SIGTERM in-flight requests finish before exit, so no commit is dropped.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.WithField("port", cfg.Port).Info("Media editor service running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server error")
		}
	}()

	<-quit
	log.Info("Shutdown signal received, draining requests")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Forced shutdown")
		return
	}
	log.Info("Server stopped cleanly")
}
