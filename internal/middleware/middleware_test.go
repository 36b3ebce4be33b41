package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notedown/backend/internal/auth"
)

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	key := "client"
	if !limiter.Allow(key) {
		t.Fatalf("expected allow on first")
	}
	if !limiter.Allow(key) {
		t.Fatalf("expected allow on second")
	}
	if limiter.Allow(key) {
		t.Fatalf("expected block on third")
	}
}

func TestValidateCSRF(t *testing.T) {
	user := auth.User{CSRF: "token"}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := ValidateCSRF(req, user); err == nil {
		t.Fatalf("expected csrf error")
	}
	req.Header.Set("X-CSRF-Token", "token")
	if err := ValidateCSRF(req, user); err != nil {
		t.Fatalf("unexpected csrf error: %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := BearerToken(req); err == nil {
		t.Fatalf("expected missing authorization error")
	}

	req.Header.Set("Authorization", "Bearer abc123")
	token, err := BearerToken(req)
	if err != nil || token != "abc123" {
		t.Fatalf("unexpected token %q err %v", token, err)
	}

	// websocket upgrades pass the token as a query parameter
	req = httptest.NewRequest(http.MethodGet, "/api/ws?token=xyz", nil)
	token, err = BearerToken(req)
	if err != nil || token != "xyz" {
		t.Fatalf("unexpected token %q err %v", token, err)
	}
}
