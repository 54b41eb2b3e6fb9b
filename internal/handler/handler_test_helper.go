// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/model"
	"inkwell/internal/render"
	"inkwell/internal/store"
	"inkwell/web"
)

const testPassword = "correct horse battery"

// testApp wires a real database, renderer and router for handler tests.
type testApp struct {
	db      *sql.DB
	queries *store.Queries
	sm      *scs.SessionManager
	router  chi.Router
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewDB(path)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating database: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO site_details (id, headline, description) VALUES (1, 'Test Blog', 'A test blog')`); err != nil {
		t.Fatalf("seeding site details: %v", err)
	}

	sm := scs.New()
	sm.Lifetime = 24 * time.Hour

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("getting templates fs: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("initializing renderer: %v", err)
	}

	siteCache := cache.NewSiteCache(cache.NewMemoryCache(time.Minute), store.New(db))
	frontend := NewFrontendHandler(db, renderer, siteCache)
	authHandler := NewAuthHandler(db, renderer, sm, siteCache, nil)
	admin := NewAdminHandler(db, renderer, siteCache)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)

	health := NewHealthHandler(db)
	r.With(middleware.OptionalLoadUser(sm, db)).Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sm, db))

		r.Get("/", frontend.Home)
		r.Get(`/category/{name:[A-Za-z_ \-0-9+]+}`, frontend.Category)
		r.Get(`/{year:[0-9]{4}}`, frontend.ByDate)
		r.Get(`/{year:[0-9]{4}}/{month:[0-9]{2}}`, frontend.ByDate)
		r.Get(`/{year:[0-9]{4}}/{month:[0-9]{2}}/{day:[0-9]{2}}`, frontend.ByDate)
		r.Get(`/{articleID:[A-Za-z0-9]{6}}/{slug:[a-zA-z\-]+}`, frontend.Article)
		r.Post(`/{articleID:[A-Za-z0-9]{6}}/{slug:[a-zA-z\-]+}`, frontend.PostComment)

		r.Get("/signup", authHandler.SignupForm)
		r.Post("/signup", authHandler.Signup)
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireLogin(sm))
		r.Use(middleware.LoadUser(sm, db))
		r.Use(middleware.RequireAdmin())

		r.Get("/", admin.Dashboard)
		r.Get("/articles", admin.Articles)
		r.Get("/articles/new", admin.NewArticle)
		r.Post("/articles", admin.CreateArticle)
		r.Get("/articles/{articleID:[A-Za-z0-9]{6}}/edit", admin.EditArticle)
		r.Post("/articles/{articleID:[A-Za-z0-9]{6}}", admin.UpdateArticle)
		r.Post("/articles/{articleID:[A-Za-z0-9]{6}}/delete", admin.DeleteArticle)
		r.Get("/categories", admin.Categories)
		r.Post("/categories", admin.CreateCategory)
		r.Post("/categories/{id:[0-9]+}", admin.UpdateCategory)
		r.Post("/categories/{id:[0-9]+}/delete", admin.DeleteCategory)
		r.Get("/comments", admin.Comments)
		r.Post("/comments/{id:[0-9]+}/delete", admin.DeleteComment)
		r.Get("/site", admin.Site)
		r.Post("/site", admin.UpdateSite)
		r.Get("/events", admin.Events)
	})

	r.NotFound(frontend.NotFound)

	return &testApp{
		db:      db,
		queries: store.New(db),
		sm:      sm,
		router:  r,
	}
}

// createUser inserts a user with the shared test password.
func (app *testApp) createUser(t *testing.T, username, role string) model.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user, err := app.queries.CreateUser(t.Context(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		t.Fatalf("creating user %q: %v", username, err)
	}
	return user
}

// login performs a form login and returns the session cookies.
func (app *testApp) login(t *testing.T, username string) []*http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "password": {testPassword}}
	rec := app.do(t, http.MethodPost, "/login", form, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login: status = %d; want %d", rec.Code, http.StatusSeeOther)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login: no session cookie set")
	}
	return cookies
}

// do runs a request through the full router.
func (app *testApp) do(t *testing.T, method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

// createArticle inserts an article bound to the given categories.
func (app *testApp) createArticle(t *testing.T, title string, categoryIDs ...int64) model.Article {
	t.Helper()
	article, err := store.CreateArticle(t.Context(), app.db, store.CreateArticleParams{
		Title:       title,
		Slug:        "test-slug",
		Body:        "Test body.",
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		t.Fatalf("creating article %q: %v", title, err)
	}
	return article
}

// createCategory inserts a category.
func (app *testApp) createCategory(t *testing.T, name string) model.Category {
	t.Helper()
	category, err := app.queries.CreateCategory(t.Context(), name)
	if err != nil {
		t.Fatalf("creating category %q: %v", name, err)
	}
	return category
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func assertBodyContains(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Errorf("response body does not contain %q", want)
	}
}
