package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html><title>{{.Title}}</title>{{template "content" .}}</html>{{end}}`),
		},
		"frontend/home.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<main>{{.Data}}</main>{{end}}`),
		},
		"auth/login.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<form>login</form>{{end}}`),
		},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	err := r.Render(rr, req, "frontend/home", TemplateData{Title: "Home", Data: "hello"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<title>Home</title>") {
		t.Errorf("body missing title: %s", body)
	}
	if !strings.Contains(body, "<main>hello</main>") {
		t.Errorf("body missing content: %s", body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderStatus(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rr := httptest.NewRecorder()

	err := r.RenderStatus(rr, req, "frontend/home", http.StatusNotFound, TemplateData{Title: "Not Found"})
	if err != nil {
		t.Fatalf("RenderStatus: %v", err)
	}
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	if err := r.Render(rr, req, "frontend/nope", TemplateData{}); err == nil {
		t.Error("Render of unknown template should fail")
	}
}

func TestRenderMarkdown(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name    string
		input   string
		want    string
		exclude string
	}{
		{
			name:  "heading",
			input: "# Title",
			want:  "<h1>Title</h1>",
		},
		{
			name:  "emphasis",
			input: "some *emphasis* here",
			want:  "<em>emphasis</em>",
		},
		{
			name:    "script stripped",
			input:   `raw <script>alert("x")</script> text`,
			want:    "text",
			exclude: "<script>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(r.renderMarkdown(tt.input))
			if !strings.Contains(got, tt.want) {
				t.Errorf("renderMarkdown(%q) = %q, want substring %q", tt.input, got, tt.want)
			}
			if tt.exclude != "" && strings.Contains(got, tt.exclude) {
				t.Errorf("renderMarkdown(%q) = %q, must not contain %q", tt.input, got, tt.exclude)
			}
		})
	}
}

func TestTemplateFuncs(t *testing.T) {
	r := newTestRenderer(t)
	funcs := r.templateFuncs()

	truncate := funcs["truncate"].(func(string, int) string)
	if got := truncate("hello world", 5); got != "hello..." {
		t.Errorf("truncate = %q, want %q", got, "hello...")
	}
	if got := truncate("hi", 5); got != "hi" {
		t.Errorf("truncate = %q, want %q", got, "hi")
	}

	seq := funcs["seq"].(func(int, int) []int)
	if got := seq(1, 3); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("seq(1, 3) = %v", got)
	}
}
