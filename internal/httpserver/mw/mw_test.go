package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"linkstash/internal/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAccessKey(t *testing.T) {
	var captured string
	h := RequireAccessKey()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = AccessKey(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/api/bookmarks", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("without header: status = %d, want 401", w.Code)
	}

	r = httptest.NewRequest("GET", "/api/bookmarks", nil)
	r.Header.Set(AccessKeyHeader, "  my-key  ")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("with header: status = %d, want 200", w.Code)
	}
	if captured != "my-key" {
		t.Errorf("context key = %q, want trimmed my-key", captured)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{RPS: 1, Burst: 2})(okHandler())

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("burst requests got %v, want 200s", statuses[:2])
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request got %d, want 429", statuses[2])
	}

	// A different IP has its own bucket.
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("other client got %d, want 200", w.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(RateLimitConfig{RPS: 0})(okHandler())

	for i := 0; i < 50; i++ {
		r := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d got %d with limiting disabled", i, w.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(okHandler())

	r := httptest.NewRequest(http.MethodOptions, "/api/bookmarks", nil)
	r.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow-origin = %q", got)
	}

	// Unlisted origins get no CORS headers.
	r = httptest.NewRequest("GET", "/api/bookmarks", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unexpected CORS headers for unlisted origin")
	}
}

func TestAllowOnlyCIDRSPassthroughWhenEmpty(t *testing.T) {
	h := AllowOnlyCIDRS(nil, false, logger.New("error", false))(okHandler())

	r := httptest.NewRequest("GET", "/infra", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 passthrough", w.Code)
	}
}

func TestAllowOnlyCIDRSBlocks(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, false, logger.New("error", false))(okHandler())

	r := httptest.NewRequest("GET", "/infra", nil)
	r.RemoteAddr = "8.8.8.8:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Errorf("outsider status = %d, want 403", w.Code)
	}

	r = httptest.NewRequest("GET", "/infra", nil)
	r.RemoteAddr = "10.1.1.1:1234"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("insider status = %d, want 200", w.Code)
	}
}
