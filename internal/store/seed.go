// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"inkwell/internal/auth"
	"inkwell/internal/model"
)

// Default admin credentials, replaced on first login.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "changeme!"
)

// Seed creates the initial data: the singleton site details row and a default
// admin account. Safe to run on every startup.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	// Site details singleton
	if _, err := queries.GetSite(ctx); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking site details: %w", err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO site_details (id, headline, description) VALUES (1, 'My Blog', 'A personal blog')`); err != nil {
			return fmt.Errorf("creating site details: %w", err)
		}
		slog.Info("created default site details")
	}

	// Admin account
	_, err := queries.GetUserByUsername(ctx, DefaultAdminUsername)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"username", user.Username,
		"password", DefaultAdminPassword,
	)

	return nil
}
