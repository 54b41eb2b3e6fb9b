// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"inkwell/internal/model"
)

// CreateCommentParams holds the fields for creating a comment. The author and
// target article are bound here, at save time.
type CreateCommentParams struct {
	AuthorID  int64
	ArticleID string
	Body      string
}

// CreateComment validates and inserts a comment. Invalid data returns a
// *model.ValidationError; created_at is set once here and never updated.
func (q *Queries) CreateComment(ctx context.Context, params CreateCommentParams) (model.Comment, error) {
	comment := model.Comment{
		AuthorID:  params.AuthorID,
		ArticleID: params.ArticleID,
		Body:      params.Body,
		CreatedAt: time.Now(),
	}
	if err := comment.Validate(); err != nil {
		return model.Comment{}, err
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO comments (author_id, article_id, body, created_at) VALUES (?, ?, ?, ?)`,
		comment.AuthorID, comment.ArticleID, comment.Body, comment.CreatedAt)
	if err != nil {
		return model.Comment{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}
	comment.ID = id
	return comment, nil
}

// ListCommentsByArticle returns an article's comments oldest first, with the
// author's username joined in.
func (q *Queries) ListCommentsByArticle(ctx context.Context, articleID string) ([]model.Comment, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT c.id, c.author_id, c.article_id, c.body, c.created_at, u.username
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.article_id = ?
		 ORDER BY c.created_at, c.id`,
		articleID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.ArticleID, &c.Body, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ListRecentComments returns the newest comments across all articles.
func (q *Queries) ListRecentComments(ctx context.Context, limit int64) ([]model.Comment, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT c.id, c.author_id, c.article_id, c.body, c.created_at, u.username
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 ORDER BY c.created_at DESC, c.id DESC
		 LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.ArticleID, &c.Body, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CountComments returns the total number of comments.
func (q *Queries) CountComments(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&count)
	return count, err
}

// DeleteComment removes a comment.
func (q *Queries) DeleteComment(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	return err
}
