// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"inkwell/internal/model"
)

// GetSite returns the singleton site details row.
func (q *Queries) GetSite(ctx context.Context) (model.Site, error) {
	var s model.Site
	err := q.db.QueryRowContext(ctx,
		`SELECT id, headline, description, author_nick, author_description,
		        twitter_url, facebook_url, github_url, youtube_url
		 FROM site_details WHERE id = 1`).
		Scan(&s.ID, &s.Headline, &s.Description, &s.AuthorNick, &s.AuthorDescription,
			&s.TwitterURL, &s.FacebookURL, &s.GithubURL, &s.YoutubeURL)
	return s, err
}

// UpdateSiteParams holds the editable site details fields.
type UpdateSiteParams struct {
	Headline          string
	Description       string
	AuthorNick        string
	AuthorDescription string
	TwitterURL        string
	FacebookURL       string
	GithubURL         string
	YoutubeURL        string
}

// UpdateSite rewrites the singleton site details row.
func (q *Queries) UpdateSite(ctx context.Context, params UpdateSiteParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE site_details
		 SET headline = ?, description = ?, author_nick = ?, author_description = ?,
		     twitter_url = ?, facebook_url = ?, github_url = ?, youtube_url = ?
		 WHERE id = 1`,
		params.Headline, params.Description, params.AuthorNick, params.AuthorDescription,
		params.TwitterURL, params.FacebookURL, params.GithubURL, params.YoutubeURL)
	return err
}
