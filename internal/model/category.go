// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "unicode/utf8"

// CategoryNameMaxLength is the maximum length of a category name.
const CategoryNameMaxLength = 40

// Category represents an article category. The stored name is always the
// sanitized form (see util.SanitizeCategoryName); sanitization happens in the
// store on every save, so a Category read back from the database carries the
// normalized name. Uniqueness of names is assumed but not enforced by a
// constraint.
type Category struct {
	ID   int64
	Name string
}

// Validate checks the category's field constraints against the value as
// given. It does not sanitize; the store sanitizes first and validates the
// sanitized value, so a name stripped down to nothing fails as required.
func (c *Category) Validate() error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(c.Name) > CategoryNameMaxLength {
		return &ValidationError{Field: "name", Message: "name must be at most 40 characters"}
	}
	return nil
}

// URL returns the category's canonical path. The stored name is already
// sanitized to URL-safe characters, so no further escaping is applied.
func (c *Category) URL() string {
	return "/category/" + c.Name
}
