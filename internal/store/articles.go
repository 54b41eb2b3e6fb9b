// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inkwell/internal/model"
	"inkwell/internal/util"
)

// CreateArticleParams holds the fields for creating an article.
type CreateArticleParams struct {
	// ID is optional; a fresh identifier is generated when empty.
	ID          string
	Title       string
	Slug        string
	Author      string
	Body        string
	CategoryIDs []int64
}

// UpdateArticleParams holds the fields for updating an article. The slug is
// stored as given; it is the caller's responsibility to re-derive it from the
// title when needed.
type UpdateArticleParams struct {
	ID          string
	Title       string
	Slug        string
	Author      string
	Body        string
	CategoryIDs []int64
}

const scanArticleCols = "article_id, title, slug, author, body, last_modified"

func scanArticle(row interface{ Scan(...any) error }) (model.Article, error) {
	var a model.Article
	var lastModified string
	if err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Author, &a.Body, &lastModified); err != nil {
		return model.Article{}, err
	}
	t, err := time.Parse(dateLayout, lastModified)
	if err != nil {
		return model.Article{}, fmt.Errorf("parsing last_modified %q: %w", lastModified, err)
	}
	a.LastModified = t
	return a, nil
}

// CreateArticle inserts an article and its category associations in one
// transaction. The identifier is generated when empty and last_modified is
// set to the current date. An identifier collision surfaces as the driver's
// uniqueness-violation error; it is not retried.
func CreateArticle(ctx context.Context, db *sql.DB, params CreateArticleParams) (model.Article, error) {
	if params.ID == "" {
		params.ID = util.NewArticleID()
	}
	if params.Author == "" {
		params.Author = model.DefaultArticleAuthor
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.Article{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	today := time.Now().Format(dateLayout)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (article_id, title, slug, author, body, last_modified)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		params.ID, params.Title, params.Slug, params.Author, params.Body, today)
	if err != nil {
		return model.Article{}, fmt.Errorf("inserting article: %w", err)
	}

	for _, categoryID := range params.CategoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO article_categories (article_id, category_id) VALUES (?, ?)`,
			params.ID, categoryID); err != nil {
			return model.Article{}, fmt.Errorf("inserting article category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Article{}, fmt.Errorf("committing transaction: %w", err)
	}

	return New(db).GetArticleByID(ctx, params.ID)
}

// UpdateArticle rewrites an article's fields and category associations.
// last_modified is reset to the current date on every save.
func UpdateArticle(ctx context.Context, db *sql.DB, params UpdateArticleParams) (model.Article, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.Article{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	today := time.Now().Format(dateLayout)
	res, err := tx.ExecContext(ctx,
		`UPDATE articles SET title = ?, slug = ?, author = ?, body = ?, last_modified = ?
		 WHERE article_id = ?`,
		params.Title, params.Slug, params.Author, params.Body, today, params.ID)
	if err != nil {
		return model.Article{}, fmt.Errorf("updating article: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Article{}, sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM article_categories WHERE article_id = ?`, params.ID); err != nil {
		return model.Article{}, fmt.Errorf("clearing article categories: %w", err)
	}
	for _, categoryID := range params.CategoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO article_categories (article_id, category_id) VALUES (?, ?)`,
			params.ID, categoryID); err != nil {
			return model.Article{}, fmt.Errorf("inserting article category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Article{}, fmt.Errorf("committing transaction: %w", err)
	}

	return New(db).GetArticleByID(ctx, params.ID)
}

// GetArticleByID returns an article with its categories loaded.
func (q *Queries) GetArticleByID(ctx context.Context, id string) (model.Article, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+scanArticleCols+` FROM articles WHERE article_id = ?`, id)
	a, err := scanArticle(row)
	if err != nil {
		return model.Article{}, err
	}

	categories, err := q.GetArticleCategories(ctx, a.ID)
	if err != nil {
		return model.Article{}, err
	}
	a.Categories = categories
	return a, nil
}

// ListArticlesParams holds paging options for article listings.
type ListArticlesParams struct {
	Limit  int64
	Offset int64
}

// ListArticles returns articles in reverse-chronological order.
func (q *Queries) ListArticles(ctx context.Context, params ListArticlesParams) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+scanArticleCols+` FROM articles
		 ORDER BY last_modified DESC, article_id LIMIT ? OFFSET ?`,
		params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectArticles(rows)
}

// CountArticles returns the total number of articles.
func (q *Queries) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	return count, err
}

// ListArticlesByCategory returns the articles associated with a category,
// newest first.
func (q *Queries) ListArticlesByCategory(ctx context.Context, categoryID int64) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT a.article_id, a.title, a.slug, a.author, a.body, a.last_modified
		 FROM articles a
		 JOIN article_categories ac ON ac.article_id = a.article_id
		 WHERE ac.category_id = ?
		 ORDER BY a.last_modified DESC, a.article_id`,
		categoryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectArticles(rows)
}

// ListArticlesByDateParams selects articles whose last_modified date matches
// the given year, year+month, or year+month+day exactly. Month and Day are
// ignored when zero.
type ListArticlesByDateParams struct {
	Year  int
	Month int
	Day   int
}

// ListArticlesByDate returns the date-archive listing, newest first.
func (q *Queries) ListArticlesByDate(ctx context.Context, params ListArticlesByDateParams) ([]model.Article, error) {
	// last_modified is stored as YYYY-MM-DD, so date filters are prefix matches.
	prefix := fmt.Sprintf("%04d", params.Year)
	if params.Month > 0 {
		prefix = fmt.Sprintf("%s-%02d", prefix, params.Month)
		if params.Day > 0 {
			prefix = fmt.Sprintf("%s-%02d", prefix, params.Day)
		}
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT `+scanArticleCols+` FROM articles
		 WHERE last_modified LIKE ? || '%'
		 ORDER BY last_modified DESC, article_id`,
		prefix)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectArticles(rows)
}

// DeleteArticle removes an article, its category associations, and its comments.
func DeleteArticle(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE article_id = ?`, id); err != nil {
		return fmt.Errorf("deleting article comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM article_categories WHERE article_id = ?`, id); err != nil {
		return fmt.Errorf("deleting article categories: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE article_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

func collectArticles(rows *sql.Rows) ([]model.Article, error) {
	var articles []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
