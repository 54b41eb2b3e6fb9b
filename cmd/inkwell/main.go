// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/logging"
	"inkwell/internal/middleware"
	"inkwell/internal/render"
	"inkwell/internal/scheduler"
	"inkwell/internal/session"
	"inkwell/internal/store"
	"inkwell/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Inkwell - personal blog engine\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_DB_PATH          SQLite database path (default: ./data/inkwell.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_REDIS_URL        Redis URL for shared caching (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("inkwell %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Pick the cache backend: Redis when configured, in-process memory otherwise.
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	var appCache cache.Cache
	if cfg.UseRedisCache() {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CachePrefix, cacheTTL)
		if err != nil {
			slog.Warn("redis unavailable, using memory cache", "error", err)
			appCache = cache.NewMemoryCache(cacheTTL)
		} else {
			slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
			appCache = redisCache
		}
	} else {
		slog.Info("cache initialized", "backend", "memory")
		appCache = cache.NewMemoryCache(cacheTTL)
	}
	defer func() { _ = appCache.Close() }()

	siteCache := cache.NewSiteCache(appCache, store.New(db))

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	sched := scheduler.New(db, logger, cfg.EventRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	frontendHandler := handler.NewFrontendHandler(db, renderer, siteCache)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, siteCache, loginProtection)
	adminHandler := handler.NewAdminHandler(db, renderer, siteCache)
	healthHandler := handler.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(sessionManager.LoadAndSave)

	// Probes carry no session or CSRF requirements. The main health check
	// resolves the user so admins get the detailed report.
	r.With(middleware.OptionalLoadUser(sessionManager, db)).Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Public frontend routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sessionManager, db))
		r.Use(csrfMiddleware)

		r.Get("/", frontendHandler.Home)
		r.Get(`/category/{name:[A-Za-z_ \-0-9+]+}`, frontendHandler.Category)
		r.Get(`/{year:[0-9]{4}}`, frontendHandler.ByDate)
		r.Get(`/{year:[0-9]{4}}/{month:[0-9]{2}}`, frontendHandler.ByDate)
		r.Get(`/{year:[0-9]{4}}/{month:[0-9]{2}}/{day:[0-9]{2}}`, frontendHandler.ByDate)
		// The slug pattern reproduces a long-standing quirk: the A-z range
		// also admits a few punctuation characters between the cases.
		r.Get(`/{articleID:[A-Za-z0-9]{6}}/{slug:[a-zA-z\-]+}`, frontendHandler.Article)
		r.Post(`/{articleID:[A-Za-z0-9]{6}}/{slug:[a-zA-z\-]+}`, frontendHandler.PostComment)
	})

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sessionManager, db))
		r.Use(csrfMiddleware)

		r.Get("/signup", authHandler.SignupForm)
		r.Post("/signup", authHandler.Signup)
		r.Get("/login", authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)
	})

	// Admin console
	r.Route("/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireLogin(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Use(middleware.RequireAdmin())

		r.Get("/", adminHandler.Dashboard)

		r.Get("/articles", adminHandler.Articles)
		r.Get("/articles/new", adminHandler.NewArticle)
		r.Post("/articles", adminHandler.CreateArticle)
		r.Get("/articles/{articleID:[A-Za-z0-9]{6}}/edit", adminHandler.EditArticle)
		r.Post("/articles/{articleID:[A-Za-z0-9]{6}}", adminHandler.UpdateArticle)
		r.Post("/articles/{articleID:[A-Za-z0-9]{6}}/delete", adminHandler.DeleteArticle)

		r.Get("/categories", adminHandler.Categories)
		r.Post("/categories", adminHandler.CreateCategory)
		r.Post("/categories/{id:[0-9]+}", adminHandler.UpdateCategory)
		r.Post("/categories/{id:[0-9]+}/delete", adminHandler.DeleteCategory)

		r.Get("/comments", adminHandler.Comments)
		r.Post("/comments/{id:[0-9]+}/delete", adminHandler.DeleteComment)

		r.Get("/site", adminHandler.Site)
		r.Post("/site", adminHandler.UpdateSite)

		r.Get("/events", adminHandler.Events)
	})

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		frontendHandler.NotFound(w, req)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
