// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Site holds the single row of site-wide details read by every view:
// headline, description, the author's bio, and social links. It is created by
// the seed and edited only through the admin console.
type Site struct {
	ID                int64
	Headline          string
	Description       string
	AuthorNick        string
	AuthorDescription string
	TwitterURL        string
	FacebookURL       string
	GithubURL         string
	YoutubeURL        string
}
