package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"inkwell/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "inkwell-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustCategory(t *testing.T, q *Queries, name string) model.Category {
	t.Helper()
	c, err := q.CreateCategory(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateCategory(%q): %v", name, err)
	}
	return c
}

func mustArticle(t *testing.T, db *sql.DB, title string, categories ...model.Category) model.Article {
	t.Helper()
	ids := make([]int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	a, err := CreateArticle(context.Background(), db, CreateArticleParams{
		Title:       title,
		Slug:        "test-slug",
		Body:        "Test body",
		CategoryIDs: ids,
	})
	if err != nil {
		t.Fatalf("CreateArticle(%q): %v", title, err)
	}
	return a
}

func TestCreateArticleGeneratesID(t *testing.T) {
	db := testDB(t)
	q := New(db)

	cat := mustCategory(t, q, "test-category")
	a := mustArticle(t, db, "My article title", cat)

	if len(a.ID) != 6 {
		t.Errorf("article ID = %q, want 6 characters", a.ID)
	}
	for _, r := range a.ID {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			t.Errorf("article ID %q contains non-hex character %q", a.ID, r)
		}
	}

	today := time.Now().Format("2006-01-02")
	if a.LastModified.Format("2006-01-02") != today {
		t.Errorf("LastModified = %v, want today (%s)", a.LastModified, today)
	}

	if len(a.Categories) != 1 || a.Categories[0].ID != cat.ID {
		t.Errorf("Categories = %+v, want [%+v]", a.Categories, cat)
	}

	if a.Author != model.DefaultArticleAuthor {
		t.Errorf("Author = %q, want default %q", a.Author, model.DefaultArticleAuthor)
	}
}

func TestCreateArticleIDCollision(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := CreateArticle(ctx, db, CreateArticleParams{
		ID: "aaaaaa", Title: "First", Slug: "first", Body: "x",
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	// Same explicit ID again: surfaces the uniqueness violation, no retry.
	_, err = CreateArticle(ctx, db, CreateArticleParams{
		ID: "aaaaaa", Title: "Second", Slug: "second", Body: "y",
	})
	if err == nil {
		t.Fatal("CreateArticle with duplicate ID = nil error, want uniqueness violation")
	}
}

func TestUpdateArticleResetsLastModified(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	cat := mustCategory(t, q, "test-category")
	a := mustArticle(t, db, "Original title", cat)

	// Backdate the row, then update and check the date snaps back to today.
	if _, err := db.ExecContext(ctx,
		`UPDATE articles SET last_modified = '2020-01-01' WHERE article_id = ?`, a.ID); err != nil {
		t.Fatalf("backdating article: %v", err)
	}

	updated, err := UpdateArticle(ctx, db, UpdateArticleParams{
		ID:          a.ID,
		Title:       "New title",
		Slug:        a.Slug, // callers decide whether to re-derive the slug
		Author:      a.Author,
		Body:        a.Body,
		CategoryIDs: []int64{cat.ID},
	})
	if err != nil {
		t.Fatalf("UpdateArticle: %v", err)
	}

	today := time.Now().Format("2006-01-02")
	if updated.LastModified.Format("2006-01-02") != today {
		t.Errorf("LastModified after update = %v, want today", updated.LastModified)
	}
	if updated.Title != "New title" {
		t.Errorf("Title = %q, want %q", updated.Title, "New title")
	}
	// The slug is not recomputed automatically on title change.
	if updated.Slug != a.Slug {
		t.Errorf("Slug = %q, want unchanged %q", updated.Slug, a.Slug)
	}
}

func TestUpdateArticleNotFound(t *testing.T) {
	db := testDB(t)
	_, err := UpdateArticle(context.Background(), db, UpdateArticleParams{
		ID: "ffffff", Title: "x", Slug: "x", Body: "x",
	})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("UpdateArticle on missing row = %v, want sql.ErrNoRows", err)
	}
}

func TestCategorySanitizedOnSave(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	c, err := q.CreateCategory(ctx, "name!\n%^&(*#@#$)")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if c.Name != "name" {
		t.Errorf("Name = %q, want %q", c.Name, "name")
	}

	stored, err := q.GetCategoryByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCategoryByID: %v", err)
	}
	if stored.Name != "name" {
		t.Errorf("stored Name = %q, want %q", stored.Name, "name")
	}

	// Sanitization runs on updates too.
	renamed, err := q.UpdateCategory(ctx, UpdateCategoryParams{ID: c.ID, Name: "New NAME!!"})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if renamed.Name != "new name" {
		t.Errorf("renamed Name = %q, want %q", renamed.Name, "new name")
	}
}

func TestCategoryNameValidatedOnSave(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		rawName string
	}{
		{"empty name", ""},
		{"sanitizes to empty", "!@#$%^&*()"},
		{"over length limit", strings.Repeat("a", 41)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := q.CreateCategory(ctx, tt.rawName); !model.IsValidationError(err) {
				t.Errorf("CreateCategory(%q) error = %v, want validation error", tt.rawName, err)
			}
		})
	}

	categories, err := q.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("got %d categories, want none persisted", len(categories))
	}

	// Updates run the same validation.
	c, err := q.CreateCategory(ctx, "kept")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := q.UpdateCategory(ctx, UpdateCategoryParams{ID: c.ID, Name: "%%%"}); !model.IsValidationError(err) {
		t.Errorf("UpdateCategory error = %v, want validation error", err)
	}
	stored, err := q.GetCategoryByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCategoryByID: %v", err)
	}
	if stored.Name != "kept" {
		t.Errorf("Name = %q, want %q after rejected rename", stored.Name, "kept")
	}
}

func TestUpdateCategoryMissing(t *testing.T) {
	db := testDB(t)
	q := New(db)

	_, err := q.UpdateCategory(context.Background(), UpdateCategoryParams{ID: 9999, Name: "ghost"})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("UpdateCategory error = %v, want sql.ErrNoRows", err)
	}
}

func TestGetCategoryByNameNotFound(t *testing.T) {
	db := testDB(t)
	q := New(db)

	_, err := q.GetCategoryByName(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetCategoryByName = %v, want sql.ErrNoRows", err)
	}
}

func TestListArticlesByCategory(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	cat1 := mustCategory(t, q, "category1")
	cat2 := mustCategory(t, q, "category2")

	a1 := mustArticle(t, db, "Test", cat1)
	a2 := mustArticle(t, db, "Test2", cat2)

	got, err := q.ListArticlesByCategory(ctx, cat1.ID)
	if err != nil {
		t.Fatalf("ListArticlesByCategory: %v", err)
	}
	if len(got) != 1 || got[0].ID != a1.ID {
		t.Errorf("ListArticlesByCategory = %+v, want only %q", got, a1.ID)
	}
	for _, a := range got {
		if a.ID == a2.ID {
			t.Errorf("article %q from another category leaked into listing", a2.ID)
		}
	}

	// Found category with zero articles: empty list, not an error.
	cat3 := mustCategory(t, q, "empty-category")
	got, err = q.ListArticlesByCategory(ctx, cat3.ID)
	if err != nil {
		t.Fatalf("ListArticlesByCategory: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListArticlesByCategory for empty category = %+v, want none", got)
	}
}

func TestListArticlesByDate(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	cat := mustCategory(t, q, "category")
	a := mustArticle(t, db, "Test article", cat)

	// An article from another day must not match today's filters.
	other := mustArticle(t, db, "Old article", cat)
	if _, err := db.ExecContext(ctx,
		`UPDATE articles SET last_modified = '2019-06-15' WHERE article_id = ?`, other.ID); err != nil {
		t.Fatalf("backdating article: %v", err)
	}

	now := time.Now()
	filters := []ListArticlesByDateParams{
		{Year: now.Year()},
		{Year: now.Year(), Month: int(now.Month())},
		{Year: now.Year(), Month: int(now.Month()), Day: now.Day()},
	}

	for _, params := range filters {
		got, err := q.ListArticlesByDate(ctx, params)
		if err != nil {
			t.Fatalf("ListArticlesByDate(%+v): %v", params, err)
		}
		found := false
		for _, g := range got {
			if g.ID == a.ID {
				found = true
			}
			if g.ID == other.ID {
				t.Errorf("ListArticlesByDate(%+v) included article from 2019", params)
			}
		}
		if !found {
			t.Errorf("ListArticlesByDate(%+v) missing today's article", params)
		}
	}

	got, err := q.ListArticlesByDate(ctx, ListArticlesByDateParams{Year: 2019, Month: 6, Day: 15})
	if err != nil {
		t.Fatalf("ListArticlesByDate: %v", err)
	}
	if len(got) != 1 || got[0].ID != other.ID {
		t.Errorf("ListArticlesByDate(2019/06/15) = %+v, want only the backdated article", got)
	}
}

func TestListArticlesOrderAndPaging(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	cat := mustCategory(t, q, "category")
	for i := 0; i < 7; i++ {
		mustArticle(t, db, "Article", cat)
	}

	total, err := q.CountArticles(ctx)
	if err != nil {
		t.Fatalf("CountArticles: %v", err)
	}
	if total != 7 {
		t.Errorf("CountArticles = %d, want 7", total)
	}

	page1, err := q.ListArticles(ctx, ListArticlesParams{Limit: 5, Offset: 0})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(page1) != 5 {
		t.Errorf("page 1 size = %d, want 5", len(page1))
	}

	page2, err := q.ListArticles(ctx, ListArticlesParams{Limit: 5, Offset: 5})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(page2) != 2 {
		t.Errorf("page 2 size = %d, want 2", len(page2))
	}
}

func TestCreateComment(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	user, err := q.CreateUser(ctx, CreateUserParams{Username: "test_user", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	cat := mustCategory(t, q, "category")
	article := mustArticle(t, db, "Test article", cat)

	c, err := q.CreateComment(ctx, CreateCommentParams{
		AuthorID:  user.ID,
		ArticleID: article.ID,
		Body:      "Test",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if c.ID == 0 {
		t.Error("comment ID should not be 0")
	}
	if c.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set at creation")
	}

	listed, err := q.ListCommentsByArticle(ctx, article.ID)
	if err != nil {
		t.Fatalf("ListCommentsByArticle: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("ListCommentsByArticle returned %d comments, want 1", len(listed))
	}
	if listed[0].AuthorName != "test_user" {
		t.Errorf("AuthorName = %q, want %q", listed[0].AuthorName, "test_user")
	}
}

func TestCreateCommentValidation(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	user, err := q.CreateUser(ctx, CreateUserParams{Username: "test_user", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	cat := mustCategory(t, q, "category")
	article := mustArticle(t, db, "Test article", cat)

	cases := []struct {
		name   string
		params CreateCommentParams
	}{
		{"empty body", CreateCommentParams{AuthorID: user.ID, ArticleID: article.ID}},
		{"missing author", CreateCommentParams{ArticleID: article.ID, Body: "Test"}},
		{"missing article", CreateCommentParams{AuthorID: user.ID, Body: "Test"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := q.CreateComment(ctx, tc.params)
			if err == nil {
				t.Fatal("CreateComment = nil error, want validation error")
			}
			if !model.IsValidationError(err) {
				t.Errorf("CreateComment error = %T (%v), want *model.ValidationError", err, err)
			}
		})
	}
}

func TestUserExistsAndDuplicate(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	_, err := q.CreateUser(ctx, CreateUserParams{Username: "taken", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	exists, err := q.UserExists(ctx, "taken")
	if err != nil {
		t.Fatalf("UserExists: %v", err)
	}
	if !exists {
		t.Error("UserExists(taken) = false, want true")
	}

	exists, err = q.UserExists(ctx, "free")
	if err != nil {
		t.Fatalf("UserExists: %v", err)
	}
	if exists {
		t.Error("UserExists(free) = true, want false")
	}

	if _, err := q.CreateUser(ctx, CreateUserParams{Username: "taken", PasswordHash: "other"}); err == nil {
		t.Error("CreateUser with duplicate username = nil error, want uniqueness violation")
	}
}

func TestSiteSeedAndUpdate(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// Seeding twice is a no-op.
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	site, err := q.GetSite(ctx)
	if err != nil {
		t.Fatalf("GetSite: %v", err)
	}
	if site.Headline == "" {
		t.Error("seeded site headline is empty")
	}

	admin, err := q.GetUserByUsername(ctx, DefaultAdminUsername)
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if !admin.IsAdmin() {
		t.Errorf("seeded admin role = %q, want admin", admin.Role)
	}

	err = q.UpdateSite(ctx, UpdateSiteParams{
		Headline:   "New headline",
		AuthorNick: "gopher",
		GithubURL:  "https://github.com/gopher",
	})
	if err != nil {
		t.Fatalf("UpdateSite: %v", err)
	}

	site, err = q.GetSite(ctx)
	if err != nil {
		t.Fatalf("GetSite: %v", err)
	}
	if site.Headline != "New headline" || site.AuthorNick != "gopher" {
		t.Errorf("site after update = %+v", site)
	}
}

func TestEventsPrune(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	old := time.Now().Add(-100 * 24 * time.Hour)
	if _, err := q.CreateEvent(ctx, CreateEventParams{
		Level: model.EventLevelInfo, Category: model.EventCategorySystem,
		Message: "old event", CreatedAt: old,
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if _, err := q.CreateEvent(ctx, CreateEventParams{
		Level: model.EventLevelWarning, Category: model.EventCategoryAuth,
		Message: "fresh event",
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	deleted, err := q.DeleteEventsBefore(ctx, time.Now().Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 || events[0].Message != "fresh event" {
		t.Errorf("remaining events = %+v, want only the fresh one", events)
	}
}
