// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/model"
	"inkwell/internal/render"
	"inkwell/internal/store"
)

// HomeData holds data for the homepage template.
type HomeData struct {
	Articles   []model.Article
	Pagination Pagination
}

// ArticleData holds data for the single-article template.
type ArticleData struct {
	Article     model.Article
	Comments    []model.Comment
	CommentForm CommentForm
}

// CategoryData holds data for the category archive template. Found
// distinguishes an unknown category from a known one with no articles.
type CategoryData struct {
	CategoryName string
	Found        bool
	Articles     []model.Article
}

// ByDateData holds data for the date archive template. SearchedDate echoes
// the requested path segments, e.g. "2026", "2026/9" or "2026/9/1".
type ByDateData struct {
	SearchedDate string
	Articles     []model.Article
}

// FrontendHandler handles public frontend routes.
type FrontendHandler struct {
	db       *sql.DB
	queries  *store.Queries
	renderer *render.Renderer
	site     *cache.SiteCache
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, site *cache.SiteCache) *FrontendHandler {
	return &FrontendHandler{
		db:       db,
		queries:  store.New(db),
		renderer: renderer,
		site:     site,
	}
}

// baseData assembles the template data shared by every frontend page: site
// details, the category list for navigation, and the logged-in user if any.
func (h *FrontendHandler) baseData(r *http.Request, title string) render.TemplateData {
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

// Home handles the homepage with a paginated article listing.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.queries.CountArticles(ctx)
	if err != nil {
		logAndInternalError(w, "failed to count articles", "error", err)
		return
	}

	page := ParsePage(r.URL.Query().Get("page"))
	pagination := BuildPagination(page, total, ArticlesPerPage)

	articles, err := h.queries.ListArticles(ctx, store.ListArticlesParams{
		Limit:  ArticlesPerPage,
		Offset: pagination.Offset(),
	})
	if err != nil {
		logAndInternalError(w, "failed to list articles", "error", err)
		return
	}

	data := h.baseData(r, "")
	data.Data = HomeData{Articles: articles, Pagination: pagination}
	if err := h.renderer.Render(w, r, "frontend/home", data); err != nil {
		logAndInternalError(w, "failed to render homepage", "error", err)
	}
}

// Article handles a single article page. The article is looked up by its
// identifier alone; the slug segment is matched by the route but not checked
// against the stored slug.
func (h *FrontendHandler) Article(w http.ResponseWriter, r *http.Request) {
	h.renderArticle(w, r, CommentForm{})
}

func (h *FrontendHandler) renderArticle(w http.ResponseWriter, r *http.Request, form CommentForm) {
	ctx := r.Context()
	articleID := chi.URLParam(r, "articleID")

	article, err := h.queries.GetArticleByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to get article", "article_id", articleID, "error", err)
		return
	}

	comments, err := h.queries.ListCommentsByArticle(ctx, article.ID)
	if err != nil {
		logAndInternalError(w, "failed to list comments", "article_id", articleID, "error", err)
		return
	}

	data := h.baseData(r, article.Title)
	data.Data = ArticleData{Article: article, Comments: comments, CommentForm: form}
	if err := h.renderer.Render(w, r, "frontend/article", data); err != nil {
		logAndInternalError(w, "failed to render article", "article_id", articleID, "error", err)
	}
}

// PostComment handles comment submission on an article page. Only logged-in
// users may comment; anonymous requests are redirected to the login page.
func (h *FrontendHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	articleID := chi.URLParam(r, "articleID")

	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	article, err := h.queries.GetArticleByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to get article", "article_id", articleID, "error", err)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, article.URL()) {
		return
	}
	form := parseCommentForm(r)
	if !form.Validate() {
		h.renderArticle(w, r, form)
		return
	}

	_, err = h.queries.CreateComment(ctx, store.CreateCommentParams{
		AuthorID:  user.ID,
		ArticleID: article.ID,
		Body:      form.Body,
	})
	if err != nil {
		if model.IsValidationError(err) {
			form.Errors["body"] = validationMessage(err)
			h.renderArticle(w, r, form)
			return
		}
		logAndInternalError(w, "failed to create comment", "article_id", articleID, "error", err)
		return
	}

	slog.Info("comment created", "article_id", article.ID, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, article.URL(), "Comment posted.")
}

// Category handles the category archive page. An unknown category renders
// the archive template with a not-found notice rather than a 404, while a
// known category with no articles renders an empty listing.
func (h *FrontendHandler) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	data := h.baseData(r, name)

	category, err := h.queries.GetCategoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			data.Data = CategoryData{CategoryName: name, Found: false}
			if err := h.renderer.Render(w, r, "frontend/category", data); err != nil {
				logAndInternalError(w, "failed to render category", "category", name, "error", err)
			}
			return
		}
		logAndInternalError(w, "failed to get category", "category", name, "error", err)
		return
	}

	articles, err := h.queries.ListArticlesByCategory(ctx, category.ID)
	if err != nil {
		logAndInternalError(w, "failed to list category articles", "category", name, "error", err)
		return
	}

	data.Data = CategoryData{CategoryName: category.Name, Found: true, Articles: articles}
	if err := h.renderer.Render(w, r, "frontend/category", data); err != nil {
		logAndInternalError(w, "failed to render category", "category", name, "error", err)
	}
}

// ByDate handles the date archive pages for year, year/month and
// year/month/day granularity. The route patterns guarantee numeric segments.
func (h *FrontendHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	searched := chi.URLParam(r, "year")
	params := store.ListArticlesByDateParams{}
	params.Year, _ = strconv.Atoi(searched)

	if month := chi.URLParam(r, "month"); month != "" {
		params.Month, _ = strconv.Atoi(month)
		searched += "/" + month
		if day := chi.URLParam(r, "day"); day != "" {
			params.Day, _ = strconv.Atoi(day)
			searched += "/" + day
		}
	}

	articles, err := h.queries.ListArticlesByDate(ctx, params)
	if err != nil {
		logAndInternalError(w, "failed to list articles by date", "date", searched, "error", err)
		return
	}

	data := h.baseData(r, searched)
	data.Data = ByDateData{SearchedDate: searched, Articles: articles}
	if err := h.renderer.Render(w, r, "frontend/by_date", data); err != nil {
		logAndInternalError(w, "failed to render date archive", "date", searched, "error", err)
	}
}

// NotFound renders the 404 page with the shared site layout.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := h.baseData(r, "Page not found")
	if err := h.renderer.RenderStatus(w, r, "frontend/404", http.StatusNotFound, data); err != nil {
		http.NotFound(w, r)
	}
}
