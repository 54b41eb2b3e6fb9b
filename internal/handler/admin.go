// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/model"
	"inkwell/internal/render"
	"inkwell/internal/store"
	"inkwell/internal/util"
)

// DashboardData holds data for the admin dashboard template.
type DashboardData struct {
	ArticleCount   int64
	CategoryCount  int
	CommentCount   int64
	UserCount      int64
	RecentComments []model.Comment
	RecentEvents   []model.Event
}

// ArticleForm holds the admin article form fields and validation state.
type ArticleForm struct {
	ID          string
	Title       string
	Slug        string
	Author      string
	Body        string
	CategoryIDs []int64
	Errors      map[string]string
}

// ArticleFormData holds data for the article create/edit template.
type ArticleFormData struct {
	Form       ArticleForm
	Categories []model.Category
	IsEdit     bool
}

// ArticleListData holds data for the admin article listing template.
type ArticleListData struct {
	Articles   []model.Article
	Pagination Pagination
}

// CategoryListData holds data for the admin category template.
type CategoryListData struct {
	Categories []model.Category
}

// CommentListData holds data for the admin comment template.
type CommentListData struct {
	Comments []model.Comment
}

// SiteFormData holds data for the site details template.
type SiteFormData struct {
	Site model.Site
}

// EventListData holds data for the admin event log template.
type EventListData struct {
	Events []model.Event
}

// AdminHandler handles the admin console routes.
type AdminHandler struct {
	db       *sql.DB
	queries  *store.Queries
	renderer *render.Renderer
	site     *cache.SiteCache
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, site *cache.SiteCache) *AdminHandler {
	return &AdminHandler{
		db:       db,
		queries:  store.New(db),
		renderer: renderer,
		site:     site,
	}
}

func (h *AdminHandler) baseData(r *http.Request, title string) render.TemplateData {
	ctx := r.Context()

	site, err := h.site.Site(ctx)
	if err != nil {
		slog.Error("failed to load site details", "error", err)
	}
	categories, err := h.site.Categories(ctx)
	if err != nil {
		slog.Error("failed to load categories", "error", err)
	}

	return render.TemplateData{
		Title:      title,
		Site:       site,
		Categories: categories,
		User:       middleware.GetUser(r),
	}
}

func (h *AdminHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, pageData any) {
	data := h.baseData(r, title)
	data.Data = pageData
	if err := h.renderer.Render(w, r, name, data); err != nil {
		logAndInternalError(w, "failed to render admin page", "template", name, "error", err)
	}
}

// Dashboard shows content counts and recent activity.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	articleCount, err := h.queries.CountArticles(ctx)
	if err != nil {
		logAndInternalError(w, "failed to count articles", "error", err)
		return
	}
	commentCount, err := h.queries.CountComments(ctx)
	if err != nil {
		logAndInternalError(w, "failed to count comments", "error", err)
		return
	}
	userCount, err := h.queries.CountUsers(ctx)
	if err != nil {
		logAndInternalError(w, "failed to count users", "error", err)
		return
	}
	categories, err := h.queries.ListCategories(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}
	recentComments, err := h.queries.ListRecentComments(ctx, 5)
	if err != nil {
		logAndInternalError(w, "failed to list recent comments", "error", err)
		return
	}
	recentEvents, err := h.queries.ListRecentEvents(ctx, 10)
	if err != nil {
		logAndInternalError(w, "failed to list recent events", "error", err)
		return
	}

	h.renderPage(w, r, "admin/dashboard", "Dashboard", DashboardData{
		ArticleCount:   articleCount,
		CategoryCount:  len(categories),
		CommentCount:   commentCount,
		UserCount:      userCount,
		RecentComments: recentComments,
		RecentEvents:   recentEvents,
	})
}

// Articles lists all articles with admin paging.
func (h *AdminHandler) Articles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.queries.CountArticles(ctx)
	if err != nil {
		logAndInternalError(w, "failed to count articles", "error", err)
		return
	}

	page := ParsePage(r.URL.Query().Get("page"))
	pagination := BuildPagination(page, total, adminPerPage)

	articles, err := h.queries.ListArticles(ctx, store.ListArticlesParams{
		Limit:  adminPerPage,
		Offset: pagination.Offset(),
	})
	if err != nil {
		logAndInternalError(w, "failed to list articles", "error", err)
		return
	}

	h.renderPage(w, r, "admin/articles", "Articles", ArticleListData{
		Articles:   articles,
		Pagination: pagination.WithBase(redirectAdminArticles),
	})
}

// NewArticle renders the article creation form.
func (h *AdminHandler) NewArticle(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}
	h.renderPage(w, r, "admin/article_form", "New article", ArticleFormData{
		Form:       ArticleForm{Errors: map[string]string{}},
		Categories: categories,
	})
}

// parseArticleForm extracts article fields from the request. The multi-select
// category field carries one numeric ID per selected option.
func parseArticleForm(r *http.Request) ArticleForm {
	form := ArticleForm{
		Title:  strings.TrimSpace(r.FormValue("title")),
		Slug:   strings.TrimSpace(r.FormValue("slug")),
		Author: strings.TrimSpace(r.FormValue("author")),
		Body:   r.FormValue("body"),
		Errors: make(map[string]string),
	}
	for _, raw := range r.Form["categories"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		form.CategoryIDs = append(form.CategoryIDs, id)
	}
	return form
}

// Validate checks the form by running the model constraints against a
// throwaway article. Returns true if the form is valid.
func (f *ArticleForm) Validate() bool {
	article := model.Article{
		Title:      f.Title,
		Author:     f.Author,
		Body:       f.Body,
		Categories: make([]model.Category, len(f.CategoryIDs)),
	}
	if err := article.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			f.Errors[verr.Field] = verr.Message
		} else {
			f.Errors["form"] = err.Error()
		}
	}
	return len(f.Errors) == 0
}

// CreateArticle handles the article creation form submission. An empty slug
// is derived from the title once, here at creation; later title edits never
// touch it.
func (h *AdminHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminArticles) {
		return
	}

	form := parseArticleForm(r)
	if !form.Validate() {
		h.renderArticleForm(w, r, form, false)
		return
	}
	if form.Slug == "" {
		form.Slug = util.Slugify(form.Title)
	}

	article, err := store.CreateArticle(ctx, h.db, store.CreateArticleParams{
		Title:       form.Title,
		Slug:        form.Slug,
		Author:      form.Author,
		Body:        form.Body,
		CategoryIDs: form.CategoryIDs,
	})
	if err != nil {
		logAndInternalError(w, "failed to create article", "error", err)
		return
	}

	slog.Info("article created", "article_id", article.ID, "title", article.Title)
	flashSuccess(w, r, h.renderer, redirectAdminArticles, "Article created.")
}

// EditArticle renders the article edit form.
func (h *AdminHandler) EditArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	articleID := chi.URLParam(r, "articleID")

	article, err := h.queries.GetArticleByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to get article", "article_id", articleID, "error", err)
		return
	}

	form := ArticleForm{
		ID:     article.ID,
		Title:  article.Title,
		Slug:   article.Slug,
		Author: article.Author,
		Body:   article.Body,
		Errors: map[string]string{},
	}
	for _, c := range article.Categories {
		form.CategoryIDs = append(form.CategoryIDs, c.ID)
	}
	h.renderArticleForm(w, r, form, true)
}

func (h *AdminHandler) renderArticleForm(w http.ResponseWriter, r *http.Request, form ArticleForm, isEdit bool) {
	categories, err := h.queries.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}
	title := "New article"
	if isEdit {
		title = "Edit article"
	}
	h.renderPage(w, r, "admin/article_form", title, ArticleFormData{
		Form:       form,
		Categories: categories,
		IsEdit:     isEdit,
	})
}

// UpdateArticle handles the article edit form submission. The slug is saved
// exactly as submitted and is not re-derived from the title.
func (h *AdminHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	articleID := chi.URLParam(r, "articleID")

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminArticles) {
		return
	}

	form := parseArticleForm(r)
	form.ID = articleID
	if !form.Validate() {
		h.renderArticleForm(w, r, form, true)
		return
	}

	article, err := store.UpdateArticle(ctx, h.db, store.UpdateArticleParams{
		ID:          articleID,
		Title:       form.Title,
		Slug:        form.Slug,
		Author:      form.Author,
		Body:        form.Body,
		CategoryIDs: form.CategoryIDs,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to update article", "article_id", articleID, "error", err)
		return
	}

	slog.Info("article updated", "article_id", article.ID, "title", article.Title)
	flashSuccess(w, r, h.renderer, redirectAdminArticles, "Article updated.")
}

// DeleteArticle removes an article together with its comments.
func (h *AdminHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	articleID := chi.URLParam(r, "articleID")

	if err := store.DeleteArticle(ctx, h.db, articleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to delete article", "article_id", articleID, "error", err)
		return
	}

	slog.Info("article deleted", "article_id", articleID)
	flashSuccess(w, r, h.renderer, redirectAdminArticles, "Article deleted.")
}

// Categories lists all categories with a creation form.
func (h *AdminHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}
	h.renderPage(w, r, "admin/categories", "Categories", CategoryListData{Categories: categories})
}

// CreateCategory handles the category creation form submission.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategories) {
		return
	}

	name := r.FormValue("name")
	category, err := h.queries.CreateCategory(ctx, name)
	if err != nil {
		if model.IsValidationError(err) {
			flashError(w, r, h.renderer, redirectAdminCategories, validationMessage(err))
			return
		}
		logAndInternalError(w, "failed to create category", "error", err)
		return
	}

	h.site.InvalidateCategories(ctx)
	slog.Info("category created", "category_id", category.ID, "name", category.Name)
	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category created.")
}

// UpdateCategory handles a category rename.
func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := ParseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategories) {
		return
	}

	category, err := h.queries.UpdateCategory(ctx, store.UpdateCategoryParams{
		ID:   id,
		Name: r.FormValue("name"),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		if model.IsValidationError(err) {
			flashError(w, r, h.renderer, redirectAdminCategories, validationMessage(err))
			return
		}
		logAndInternalError(w, "failed to update category", "category_id", id, "error", err)
		return
	}

	h.site.InvalidateCategories(ctx)
	slog.Info("category updated", "category_id", category.ID, "name", category.Name)
	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category updated.")
}

// DeleteCategory removes a category and its article associations.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := ParseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.queries.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to delete category", "category_id", id, "error", err)
		return
	}

	h.site.InvalidateCategories(ctx)
	slog.Info("category deleted", "category_id", id)
	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category deleted.")
}

// Comments lists the most recent comments for moderation.
func (h *AdminHandler) Comments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.queries.ListRecentComments(r.Context(), 100)
	if err != nil {
		logAndInternalError(w, "failed to list comments", "error", err)
		return
	}
	h.renderPage(w, r, "admin/comments", "Comments", CommentListData{Comments: comments})
}

// DeleteComment removes a comment.
func (h *AdminHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := ParseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.queries.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to delete comment", "comment_id", id, "error", err)
		return
	}

	slog.Info("comment deleted", "comment_id", id)
	flashSuccess(w, r, h.renderer, redirectAdminComments, "Comment deleted.")
}

// Site renders the site details form.
func (h *AdminHandler) Site(w http.ResponseWriter, r *http.Request) {
	site, err := h.queries.GetSite(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to get site details", "error", err)
		return
	}
	h.renderPage(w, r, "admin/site", "Site details", SiteFormData{Site: site})
}

// UpdateSite handles the site details form submission.
func (h *AdminHandler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSite) {
		return
	}

	err := h.queries.UpdateSite(ctx, store.UpdateSiteParams{
		Headline:          strings.TrimSpace(r.FormValue("headline")),
		Description:       strings.TrimSpace(r.FormValue("description")),
		AuthorNick:        strings.TrimSpace(r.FormValue("author_nick")),
		AuthorDescription: strings.TrimSpace(r.FormValue("author_description")),
		TwitterURL:        strings.TrimSpace(r.FormValue("twitter_url")),
		FacebookURL:       strings.TrimSpace(r.FormValue("facebook_url")),
		GithubURL:         strings.TrimSpace(r.FormValue("github_url")),
		YoutubeURL:        strings.TrimSpace(r.FormValue("youtube_url")),
	})
	if err != nil {
		logAndInternalError(w, "failed to update site details", "error", err)
		return
	}

	h.site.InvalidateSite(ctx)
	slog.Info("site details updated")
	flashSuccess(w, r, h.renderer, redirectAdminSite, "Site details saved.")
}

// Events lists recent event log entries.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.queries.ListRecentEvents(r.Context(), 200)
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}
	h.renderPage(w, r, "admin/events", "Event log", EventListData{Events: events})
}
