package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RuumaLilja/tech-collector-mcp/app/article"
	"github.com/RuumaLilja/tech-collector-mcp/app/database"
)

type stubRepo struct {
	count    int
	countErr error
	stored   map[string]article.Article
}

func (s *stubRepo) FindByIdentity(ctx context.Context, url, fingerprint string) (*article.Article, error) {
	return nil, nil
}

func (s *stubRepo) Upsert(ctx context.Context, a article.Article) (database.UpsertResult, error) {
	return database.UpsertResult{Created: true}, nil
}

func (s *stubRepo) ListHistory(ctx context.Context, status string, limit int) ([]article.Article, error) {
	return nil, nil
}

func (s *stubRepo) TopTags(ctx context.Context, limit int) ([]database.TagCount, error) {
	return []database.TagCount{{Tag: "go", Count: 3}}, nil
}

func (s *stubRepo) MarkRead(ctx context.Context, fingerprint string, readAt time.Time) error {
	if _, ok := s.stored[fingerprint]; !ok {
		return fmt.Errorf("article not found: %s", fingerprint)
	}
	return nil
}

func (s *stubRepo) GetArticleCount(ctx context.Context) (int, error) {
	return s.count, s.countErr
}

func newTestHandler(repo database.ArticleRepository) *Handler {
	return &Handler{
		repo:          repo,
		sourceCount:   2,
		historyLimit:  100,
		defaultCount:  10,
		defaultPeriod: "weekly",
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(&stubRepo{count: 42})
	server := NewServer(handler, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"articles":42`) {
		t.Errorf("Expected article count in body, got %s", w.Body.String())
	}
}

func TestStatsEndpoint(t *testing.T) {
	handler := newTestHandler(&stubRepo{count: 7})
	server := NewServer(handler, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"top_tags"`) {
		t.Errorf("Expected top tags in body, got %s", w.Body.String())
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := newTestHandler(&stubRepo{stored: map[string]article.Article{"abc": {}}})
	server := NewServer(handler, "secret")

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"wrong key", "X-API-Key", "nope", http.StatusUnauthorized},
		{"valid key", "X-API-Key", "secret", http.StatusOK},
		{"bearer token", "Authorization", "Bearer secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/articles/abc/read", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			server.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestMarkReadNotFound(t *testing.T) {
	handler := newTestHandler(&stubRepo{stored: map[string]article.Article{}})
	server := NewServer(handler, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/articles/missing/read", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestSummarizeUnconfigured(t *testing.T) {
	handler := newTestHandler(&stubRepo{})
	server := NewServer(handler, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/summarize", strings.NewReader(`{"url":"https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	server.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}
