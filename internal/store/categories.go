// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"inkwell/internal/model"
	"inkwell/internal/util"
)

// CreateCategory inserts a category. The name is sanitized unconditionally on
// save and the sanitized value is validated before the insert, so a name that
// sanitizes to the empty string fails with a *model.ValidationError rather
// than persisting an empty row.
func (q *Queries) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	name = util.SanitizeCategoryName(name)
	c := model.Category{Name: name}
	if err := c.Validate(); err != nil {
		return model.Category{}, err
	}

	res, err := q.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return model.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Category{}, err
	}
	return model.Category{ID: id, Name: name}, nil
}

// UpdateCategoryParams holds the fields for renaming a category.
type UpdateCategoryParams struct {
	ID   int64
	Name string
}

// UpdateCategory renames a category. Sanitization and validation run on every
// save, including updates. Updating an id with no row returns sql.ErrNoRows.
func (q *Queries) UpdateCategory(ctx context.Context, params UpdateCategoryParams) (model.Category, error) {
	name := util.SanitizeCategoryName(params.Name)
	c := model.Category{ID: params.ID, Name: name}
	if err := c.Validate(); err != nil {
		return model.Category{}, err
	}

	res, err := q.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`, name, params.ID)
	if err != nil {
		return model.Category{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Category{}, sql.ErrNoRows
	}
	return c, nil
}

// GetCategoryByID returns a single category.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	return c, err
}

// GetCategoryByName returns the category with the given (sanitized) name.
// sql.ErrNoRows distinguishes "no such category" from a category with zero
// articles.
func (q *Queries) GetCategoryByName(ctx context.Context, name string) (model.Category, error) {
	var c model.Category
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE name = ?`, name).Scan(&c.ID, &c.Name)
	return c, err
}

// ListCategories returns all categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetArticleCategories returns the categories associated with an article.
func (q *Queries) GetArticleCategories(ctx context.Context, articleID string) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT c.id, c.name FROM categories c
		 JOIN article_categories ac ON ac.category_id = c.id
		 WHERE ac.article_id = ?
		 ORDER BY c.name`,
		articleID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category and its article associations.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM article_categories WHERE category_id = ?`, id); err != nil {
		return err
	}
	_, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}
