package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projyotish/internal/content"
	"github.com/projyotish/internal/handler"
	"github.com/projyotish/internal/outbound"
	"github.com/projyotish/internal/render"
	"github.com/projyotish/internal/sections"
	"github.com/projyotish/internal/service"
	"github.com/projyotish/web"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lib, err := content.Load(web.Content(), nil)
	if err != nil {
		t.Fatalf("failed to load content: %v", err)
	}
	links := outbound.Links{Number: "918291218234", DefaultText: "Namaste"}
	pages, err := service.NewPageService(lib, sections.NewCatalog(lib, links), render.New(render.Options{}), web.Templates(), service.PageOptions{})
	if err != nil {
		t.Fatalf("failed to create page service: %v", err)
	}

	var paths []string
	for _, page := range pages.Pages() {
		paths = append(paths, page.Path)
	}

	r, err := SetupRouter(handler.NewAPI(handler.Deps{Pages: pages, Links: links}), paths, Options{
		SessionSecret: "test-secret",
		Templates:     web.Templates(),
		Static:        web.Static(),
	})
	if err != nil {
		t.Fatalf("failed to set up router: %v", err)
	}
	return r
}

func TestSetupRouterServesEmbeddedStatic(t *testing.T) {
	r := setupTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.Len() == 0 {
		t.Fatal("expected stylesheet body")
	}
}

func TestPagesWithoutTrailingSlashRedirect(t *testing.T) {
	r := setupTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pricing", nil))

	if rr.Code != http.StatusMovedPermanently {
		t.Fatalf("expected status %d, got %d", http.StatusMovedPermanently, rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/pricing/" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestRequestIDHeader(t *testing.T) {
	r := setupTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "6f1c2a4e-9b1d-4c1e-8a53-0c1f3e0b7d21")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if got := rr.Header().Get(requestIDHeader); got != "6f1c2a4e-9b1d-4c1e-8a53-0c1f3e0b7d21" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	r := setupTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/leads", nil))
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected redirect to login, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `name="password"`) {
		t.Fatalf("expected login form, got %d", rr.Code)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{name: "zero", input: time.Time{}, expected: ""},
		{name: "seconds", input: now.Add(-30 * time.Second), expected: "just now"},
		{name: "minute", input: now.Add(-1 * time.Minute), expected: "1 minute ago"},
		{name: "minutes", input: now.Add(-5 * time.Minute), expected: "5 minutes ago"},
		{name: "hours", input: now.Add(-2 * time.Hour), expected: "2 hours ago"},
		{name: "days", input: now.Add(-72 * time.Hour), expected: "3 days ago"},
		{name: "months", input: now.Add(-60 * 24 * time.Hour), expected: "2 months ago"},
		{name: "years", input: now.Add(-3 * 365 * 24 * time.Hour), expected: "3 years ago"},
		{name: "future", input: now.Add(2 * time.Minute), expected: "just now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatRelativeTime(now, tt.input)
			if got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
