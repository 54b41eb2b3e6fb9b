// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"
	"testing"

	"inkwell/internal/model"
)

func TestHealthAnonymous(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/health", nil, nil)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	assertBodyContains(t, body, `"status":"healthy"`)
	if strings.Contains(body, "checks") {
		t.Errorf("anonymous health response should not carry check details, got %s", body)
	}
}

func TestHealthAdminDetails(t *testing.T) {
	app := newTestApp(t)
	adminUser := app.createUser(t, "admin", model.RoleAdmin)
	cookies := app.login(t, adminUser.Username)

	rec := app.do(t, http.MethodGet, "/health", nil, cookies)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	assertBodyContains(t, body, `"status":"healthy"`)
	assertBodyContains(t, body, "database")
	assertBodyContains(t, body, "uptime")
}

func TestHealthProbes(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/health/live", nil, nil)
	assertStatus(t, rec.Code, http.StatusOK)
	assertBodyContains(t, rec.Body.String(), "alive")

	rec = app.do(t, http.MethodGet, "/health/ready", nil, nil)
	assertStatus(t, rec.Code, http.StatusOK)
	assertBodyContains(t, rec.Body.String(), "ready")
}
