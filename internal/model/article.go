// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
	"unicode/utf8"
)

// Article field constraints.
const (
	ArticleTitleMaxLength  = 100
	ArticleAuthorMaxLength = 30

	// DefaultArticleAuthor is the byline used when none is given.
	DefaultArticleAuthor = "Admin"
)

// Article represents a blog article. The identifier is a 6-character
// lowercase hex string generated once at creation and immutable thereafter;
// together with the slug it forms the canonical article path. LastModified is
// reset to the current date on every save by the store.
type Article struct {
	ID           string
	Title        string
	Slug         string
	Author       string
	Body         string
	LastModified time.Time
	Categories   []Category
}

// Validate checks the article's field constraints.
func (a *Article) Validate() error {
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if utf8.RuneCountInString(a.Title) > ArticleTitleMaxLength {
		return &ValidationError{Field: "title", Message: "title must be at most 100 characters"}
	}
	if a.Body == "" {
		return &ValidationError{Field: "body", Message: "body is required"}
	}
	if utf8.RuneCountInString(a.Author) > ArticleAuthorMaxLength {
		return &ValidationError{Field: "author", Message: "author must be at most 30 characters"}
	}
	if len(a.Categories) == 0 {
		return &ValidationError{Field: "categories", Message: "at least one category is required"}
	}
	return nil
}

// URL returns the article's canonical path: /<article_id>/<slug>.
func (a Article) URL() string {
	return "/" + a.ID + "/" + a.Slug
}
