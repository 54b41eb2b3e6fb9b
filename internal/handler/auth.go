// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/render"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

// SignupData holds data for the signup template. UserExists is set when the
// requested username is already taken; the account is not created and the
// form is shown again.
type SignupData struct {
	Form       SignupForm
	UserExists bool
}

// LoginData holds data for the login template.
type LoginData struct {
	Form LoginForm
}

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	site            *cache.SiteCache
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, site *cache.SiteCache, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		site:            site,
		loginProtection: lp,
	}
}

func (h *AuthHandler) baseData(r *http.Request, title string) render.TemplateData {
	ctx := r.Context()

	site, err := h.site.Site(ctx)
	if err != nil {
		slog.Error("failed to load site details", "error", err)
	}
	categories, err := h.site.Categories(ctx)
	if err != nil {
		slog.Error("failed to load categories", "error", err)
	}

	return render.TemplateData{
		Title:      title,
		Site:       site,
		Categories: categories,
		User:       middleware.GetUser(r),
	}
}

// redirectIfAuthenticated sends an already-logged-in user to the homepage.
func (h *AuthHandler) redirectIfAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	if h.sessionManager.GetInt64(r.Context(), session.KeyUserID) > 0 {
		http.Redirect(w, r, redirectHome, http.StatusSeeOther)
		return true
	}
	return false
}

// SignupForm renders the signup page.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfAuthenticated(w, r) {
		return
	}
	h.renderSignup(w, r, SignupData{Form: SignupForm{Errors: map[string]string{}}})
}

func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, data SignupData) {
	tmplData := h.baseData(r, "Sign up")
	tmplData.Data = data
	if err := h.renderer.Render(w, r, "auth/signup", tmplData); err != nil {
		logAndInternalError(w, "failed to render signup page", "error", err)
	}
}

// Signup handles the signup form submission. A taken username re-renders the
// form with a notice and does not create an account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.redirectIfAuthenticated(w, r) {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, "/signup") {
		return
	}

	form := parseSignupForm(r)
	if !form.Validate() {
		h.renderSignup(w, r, SignupData{Form: form})
		return
	}

	exists, err := h.queries.UserExists(ctx, form.Username)
	if err != nil {
		logAndInternalError(w, "failed to check username", "error", err)
		return
	}
	if exists {
		slog.Warn("signup rejected: username taken", "username", form.Username)
		h.renderSignup(w, r, SignupData{Form: form, UserExists: true})
		return
	}

	hash, err := auth.HashPassword(form.Password1)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Username:     form.Username,
		PasswordHash: hash,
	})
	if err != nil {
		logAndInternalError(w, "failed to create user", "error", err)
		return
	}

	slog.Info("signup completed", "user_id", user.ID, "username", user.Username)
	flashSuccess(w, r, h.renderer, redirectLogin, "Account created. You can log in now.")
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfAuthenticated(w, r) {
		return
	}
	data := h.baseData(r, "Log in")
	data.Data = LoginData{Form: LoginForm{Errors: map[string]string{}}}
	if err := h.renderer.Render(w, r, "auth/login", data); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	form := parseLoginForm(r)
	if !form.Validate() {
		flashError(w, r, h.renderer, redirectLogin, "Username and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(form.Username); locked {
			slog.Warn("login attempt on locked account", "username", form.Username)
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.queries.GetUserByUsername(ctx, form.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error during login", "error", err)
		}
		// Walk the same failure path for unknown users to avoid enumeration.
		h.failLogin(w, r, form.Username)
		return
	}

	valid, err := auth.CheckPassword(form.Password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, redirectLogin, "Invalid username or password")
		return
	}
	if !valid {
		slog.Warn("login failed: invalid password", "username", form.Username)
		h.failLogin(w, r, form.Username)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(form.Username)
	}

	// Upgrade hashes created with older parameters while the password is known.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(form.Password); err == nil {
			if err := h.queries.UpdateUserPassword(ctx, user.ID, newHash); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(ctx, user.ID, time.Now()); err != nil {
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	// Regenerate the session ID to prevent session fixation.
	if err := h.sessionManager.RenewToken(ctx); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(ctx, session.KeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	flashSuccess(w, r, h.renderer, redirectHome, "Welcome back, "+user.Username+"!")
}

// failLogin records a failed attempt and renders the shared error response.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, username string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Too many failed attempts. Account locked for %s.", formatDuration(lockDuration)))
			return
		}
		if remaining := h.loginProtection.GetRemainingAttempts(username); remaining > 0 && remaining <= 3 {
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Invalid username or password. %d attempts remaining.", remaining))
			return
		}
	}
	flashError(w, r, h.renderer, redirectLogin, "Invalid username or password")
}

// Logout destroys the session and redirects to the homepage.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID)
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "failed to destroy session", "error", err)
		return
	}
	if userID > 0 {
		slog.Info("user logged out", "user_id", userID)
	}
	flashSuccess(w, r, h.renderer, redirectHome, "You have been logged out.")
}

// formatDuration renders a duration in whole minutes, or seconds when short.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	minutes := int(d.Round(time.Minute).Minutes())
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
