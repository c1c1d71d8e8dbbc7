// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"foidesk/internal/handlers"
	"foidesk/internal/locale"
	"foidesk/internal/middleware"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

// newTestRouter builds the router around an Admin without repositories.
// Only requests rejected before reaching a repository may be sent to it.
func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) http.Handler {
	t.Helper()
	p, err := locale.New([]string{"en", "es"}, "en")
	if err != nil {
		t.Fatalf("locale.New: %v", err)
	}
	admin := handlers.NewAdmin(nil, nil, nil, nil, nil, nil, nil, p)
	return New(admin, p, limiter)
}

func TestRouterMiddlewareChain(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Language", "es")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Content-Language"); got != "es" {
		t.Errorf("Content-Language: got %q, want es", got)
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
}

func TestRouterRoutes(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/admin/categories/not-a-uuid/edit", http.StatusBadRequest},
		{http.MethodPut, "/admin/categories/not-a-uuid", http.StatusBadRequest},
		{http.MethodDelete, "/admin/categories/not-a-uuid", http.StatusBadRequest},
		{http.MethodDelete, "/admin/headings/not-a-uuid", http.StatusBadRequest},
		{http.MethodGet, "/admin/users/not-a-uuid/activity", http.StatusBadRequest},
		{http.MethodDelete, "/admin/users/not-a-uuid/bounce", http.StatusBadRequest},
		{http.MethodPost, "/admin/users/not-a-uuid/bounce", http.StatusBadRequest},
		{http.MethodGet, "/admin/bodies/not-a-uuid", http.StatusBadRequest},
		{http.MethodPut, "/admin/bodies/not-a-uuid/tags", http.StatusBadRequest},
		{http.MethodPost, "/admin/requests/not-a-uuid/events", http.StatusBadRequest},
		{http.MethodPost, "/admin/events/not-a-uuid/classifications", http.StatusBadRequest},
		{http.MethodPost, "/admin/requests", http.StatusBadRequest},
		{http.MethodDelete, "/admin/request-game", http.StatusMethodNotAllowed},
		{http.MethodGet, "/admin/unknown", http.StatusNotFound},
		{http.MethodPatch, "/admin/categories/new", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRouterRateLimitsAdmin(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	h := newTestRouter(t, middleware.NewRateLimiter(client, 1, time.Hour))

	send := func(path string) int {
		req := httptest.NewRequest(http.MethodDelete, path, nil)
		req.RemoteAddr = "10.1.1.1:4000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := send("/admin/headings/x"); got != http.StatusBadRequest {
		t.Fatalf("first request: got %d, want 400", got)
	}
	if got := send("/admin/headings/x"); got != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want 429", got)
	}
	if got := send("/health"); got != http.StatusOK {
		t.Errorf("health is not rate limited: got %d", got)
	}
}
