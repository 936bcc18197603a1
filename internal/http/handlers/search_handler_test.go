package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/services"
)

func TestSearchMovies_OK(t *testing.T) {
	var gotQuery, gotLang string
	var gotLimit int
	svc := stubMovieSvc{search: func(ctx context.Context, query string, limit int, language string) ([]domain.ScoredMovie, error) {
		gotQuery, gotLimit, gotLang = query, limit, language
		return []domain.ScoredMovie{
			{Movie: domain.Movie{ID: 1, Title: "Alien"}, Score: 0.8},
			{Movie: domain.Movie{ID: 2, Title: "Aliens"}, Score: 0.7},
		}, nil
	}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?query=space+horror&limit=2&language=en", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotQuery != "space horror" || gotLimit != 2 || gotLang != "en" {
		t.Fatalf("params not forwarded: q=%q limit=%d lang=%q", gotQuery, gotLimit, gotLang)
	}
	var resp SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Query != "space horror" || resp.Count != 2 || resp.Results[0].Score < resp.Results[1].Score {
		t.Fatalf("response unexpected: %+v", resp)
	}
}

func TestSearchMovies_MissingQueryParam(t *testing.T) {
	svc := stubMovieSvc{search: func(ctx context.Context, query string, limit int, language string) ([]domain.ScoredMovie, error) {
		t.Fatalf("service should not be called without a query parameter")
		return nil, nil
	}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != ErrCodeBadRequest {
		t.Fatalf("error envelope unexpected: %s", w.Body.String())
	}
}

func TestSearchMovies_EmptyQueryValueStillServed(t *testing.T) {
	// "?query=" present but blank is a browse request; the service decides
	// what to do with it (random fallback downstream).
	called := false
	svc := stubMovieSvc{search: func(ctx context.Context, query string, limit int, language string) ([]domain.ScoredMovie, error) {
		called = true
		return nil, nil
	}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?query=", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !called {
		t.Fatalf("service should be called for blank query value")
	}
}

func TestSearchMovies_ErrorMappings(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid limit", services.ErrInvalidLimit, http.StatusBadRequest, ErrCodeBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError, ErrCodeSearchFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := stubMovieSvc{search: func(ctx context.Context, query string, limit int, language string) ([]domain.ScoredMovie, error) {
				return nil, tc.err
			}}
			r := newTestRouter(svc)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?query=x&limit=-1", nil))
			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, w.Code)
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != tc.wantCode {
				t.Fatalf("error envelope unexpected: %s", w.Body.String())
			}
		})
	}
}

func TestLimitParam_Defaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := New(stubMovieSvc{})
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/search?query=x", nil)
	if got := h.limitParam(c); got != 5 {
		t.Fatalf("zero DefaultLimit should fall back to 5, got %d", got)
	}

	h.DefaultLimit = 10
	if got := h.limitParam(c); got != 10 {
		t.Fatalf("configured default expected 10, got %d", got)
	}

	c.Request = httptest.NewRequest(http.MethodGet, "/search?query=x&limit=3", nil)
	if got := h.limitParam(c); got != 3 {
		t.Fatalf("explicit limit expected 3, got %d", got)
	}

	// Negative values pass through for the service to reject.
	c.Request = httptest.NewRequest(http.MethodGet, "/search?query=x&limit=-2", nil)
	if got := h.limitParam(c); got != -2 {
		t.Fatalf("negative limit should pass through, got %d", got)
	}
}
