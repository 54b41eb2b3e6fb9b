// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
	"unicode/utf8"
)

// CommentBodyMaxLength is the maximum length of a comment body.
const CommentBodyMaxLength = 500

// Comment represents a reader comment on an article. The author and article
// references are bound at save time and required; CreatedAt is set at
// creation and immutable thereafter.
type Comment struct {
	ID        int64
	AuthorID  int64
	ArticleID string
	Body      string
	CreatedAt time.Time

	// AuthorName is populated by list queries that join the users table.
	AuthorName string
}

// Validate checks the comment's field constraints.
func (c *Comment) Validate() error {
	if c.AuthorID == 0 {
		return &ValidationError{Field: "author", Message: "author is required"}
	}
	if c.ArticleID == "" {
		return &ValidationError{Field: "article", Message: "article is required"}
	}
	if c.Body == "" {
		return &ValidationError{Field: "body", Message: "body is required"}
	}
	if utf8.RuneCountInString(c.Body) > CommentBodyMaxLength {
		return &ValidationError{Field: "body", Message: "body must be at most 500 characters"}
	}
	return nil
}
