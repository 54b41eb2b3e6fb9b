// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"strings"
	"time"
	"unicode"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleReader = "reader"
)

// Username and password constraints.
const (
	UsernameMaxLength = 150
	PasswordMinLength = 8
)

// User represents a registered account. Readers sign up through the public
// form; admin accounts are created by the seed or by another admin.
type User struct {
	ID           int64
	Username     string
	PasswordHash string `json:"-"` // Never expose in JSON
	Role         string
	CreatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidateUsername checks the username constraints.
func ValidateUsername(username string) error {
	if username == "" {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	if len(username) > UsernameMaxLength {
		return &ValidationError{Field: "username", Message: "username is too long"}
	}
	for _, r := range username {
		if unicode.IsSpace(r) {
			return &ValidationError{Field: "username", Message: "username must not contain spaces"}
		}
	}
	return nil
}

// ValidatePassword checks a candidate password against the strength policy:
// minimum length, not entirely numeric, and not equal to the username.
func ValidatePassword(password, username string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < PasswordMinLength {
		return &ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	allDigits := true
	for _, r := range password {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		return &ValidationError{Field: "password", Message: "password must not be entirely numeric"}
	}
	if username != "" && strings.EqualFold(password, username) {
		return &ValidationError{Field: "password", Message: "password must not equal the username"}
	}
	return nil
}
