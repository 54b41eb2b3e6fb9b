// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// ArticleIDLength is the length of a generated article identifier.
const ArticleIDLength = 6

// NewArticleID returns a random article identifier: the first 6 hex
// characters of a random 128-bit UUID. Collision probability is low enough
// for a personal blog; the articles table declares the column PRIMARY KEY,
// so a collision fails at persistence time rather than being retried here.
func NewArticleID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:ArticleIDLength]
}

// IsValidArticleID reports whether s has the shape of an article identifier
// as accepted by the router: exactly 6 ASCII letters or digits. Generated
// identifiers are always lowercase hex, but historical links with mixed case
// are accepted.
func IsValidArticleID(s string) bool {
	if len(s) != ArticleIDLength {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
