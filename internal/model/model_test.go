package model

import (
	"strings"
	"testing"
	"time"
)

func TestCategoryValidate(t *testing.T) {
	tests := []struct {
		name    string
		cat     Category
		wantErr bool
	}{
		{"valid", Category{Name: "my-category-name"}, false},
		{"empty name", Category{Name: ""}, true},
		{"too long", Category{Name: strings.Repeat("Test", 100)}, true},
		{"exactly max length", Category{Name: strings.Repeat("a", CategoryNameMaxLength)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cat.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("Validate() returned %T, want *ValidationError", err)
			}
		})
	}
}

func TestCategoryURL(t *testing.T) {
	c := Category{Name: "my-category-name"}
	if got, want := c.URL(), "/category/my-category-name"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestArticleValidate(t *testing.T) {
	valid := func() Article {
		return Article{
			ID:         "a3f09b",
			Title:      "My article title",
			Slug:       "my-article-title",
			Body:       strings.Repeat("text", 200),
			Categories: []Category{{ID: 1, Name: "test-category"}},
		}
	}

	t.Run("valid article", func(t *testing.T) {
		a := valid()
		if err := a.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("empty title", func(t *testing.T) {
		a := valid()
		a.Title = ""
		if err := a.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("title too long", func(t *testing.T) {
		a := valid()
		a.Title = strings.Repeat("x", ArticleTitleMaxLength+1)
		if err := a.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		a := valid()
		a.Body = ""
		if err := a.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("no categories", func(t *testing.T) {
		a := valid()
		a.Categories = nil
		if err := a.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})
}

func TestArticleURL(t *testing.T) {
	a := Article{ID: "a3f09b", Slug: "my-article-title"}
	if got, want := a.URL(), "/a3f09b/my-article-title"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestCommentValidate(t *testing.T) {
	valid := func() Comment {
		return Comment{
			AuthorID:  1,
			ArticleID: "a3f09b",
			Body:      "Test",
			CreatedAt: time.Now(),
		}
	}

	t.Run("valid comment", func(t *testing.T) {
		c := valid()
		if err := c.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		c := valid()
		c.Body = ""
		if err := c.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("body too long", func(t *testing.T) {
		c := valid()
		c.Body = strings.Repeat("x", CommentBodyMaxLength+1)
		if err := c.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("missing author", func(t *testing.T) {
		c := valid()
		c.AuthorID = 0
		if err := c.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("missing article", func(t *testing.T) {
		c := valid()
		c.ArticleID = ""
		if err := c.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		username string
		wantErr  bool
	}{
		{"valid", "test_password1", "bob", false},
		{"empty", "", "bob", true},
		{"too short", "abc1234", "bob", true},
		{"entirely numeric", "12345678", "bob", true},
		{"equals username", "Bobby_Tables", "bobby_tables", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q, %q) error = %v, wantErr %v",
					tt.password, tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername(""); err == nil {
		t.Error("ValidateUsername(\"\") = nil, want error")
	}
	if err := ValidateUsername("has space"); err == nil {
		t.Error("ValidateUsername with space = nil, want error")
	}
	if err := ValidateUsername("test_user"); err != nil {
		t.Errorf("ValidateUsername(\"test_user\") = %v, want nil", err)
	}
}
