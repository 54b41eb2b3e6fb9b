// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and their validation invariants:
// Article, Category, Comment, User, Site, and Event.
package model

import (
	"errors"
	"fmt"
)

// ValidationError describes a single invalid field value. All model and form
// validation failures in the application surface as this type so callers can
// distinguish them from infrastructure errors with errors.As.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
