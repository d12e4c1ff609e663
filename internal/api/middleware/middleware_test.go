package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if seen == "" || rec.Header().Get(HeaderRequestID) != seen {
			t.Errorf("request id %q, header %q", seen, rec.Header().Get(HeaderRequestID))
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if seen != "abc-123" || rec.Header().Get(HeaderRequestID) != "abc-123" {
			t.Errorf("request id %q not propagated", seen)
		}
	})
}

func TestRecover(t *testing.T) {
	stats := &Stats{}
	h := AccessLog(stats)(Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
	if stats.Requests.Load() != 1 || stats.ServerError.Load() != 1 {
		t.Errorf("stats = %d requests, %d server errors", stats.Requests.Load(), stats.ServerError.Load())
	}
}

func TestMaxBody(t *testing.T) {
	var readErr error
	h := MaxBody(4)(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 16)
		_, readErr = r.Body.Read(buf)
		if readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
	})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	if readErr == nil {
		t.Error("expected body limit error")
	}
}

func TestSameOrigin(t *testing.T) {
	h := SameOrigin(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		origin string
		want   int
	}{
		{"", http.StatusOK},
		{"http://example.com", http.StatusOK},
		{"https://example.com", http.StatusOK},
		{"http://other.example", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/products/next", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		if rec.Code != tt.want {
			t.Errorf("origin %q = %d, want %d", tt.origin, rec.Code, tt.want)
		}
	}
}
