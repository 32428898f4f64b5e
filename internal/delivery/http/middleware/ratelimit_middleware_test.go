package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitMiddlewareThrottles(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 2)
	handler := rl.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
		req.RemoteAddr = "10.0.0.1:51000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two requests should pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request should be throttled, got %d", statuses[2])
	}
}

func TestRateLimitMiddlewarePerClient(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 1)
	handler := rl.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	first.RemoteAddr = "10.0.0.1:51000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first client first request = %d, want 200", rec.Code)
	}

	// a different client has its own bucket
	second := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	second.RemoteAddr = "10.0.0.2:51000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusOK {
		t.Errorf("second client first request = %d, want 200", rec.Code)
	}
}
