package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/approvals/internal/core/domain"
)

type stubLimiter struct {
	allowed    bool
	err        error
	lastCaller string
}

func (l *stubLimiter) Allow(_ context.Context, _, caller string) (bool, error) {
	l.lastCaller = caller
	return l.allowed, l.err
}

func runRateLimit(t *testing.T, limiter Limiter, user *domain.User) error {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/requests", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if user != nil {
		c.Set(userContextKey, *user)
	}

	handler := RateLimit(limiter)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	if err := runRateLimit(t, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRateLimit_Allowed(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	if err := runRateLimit(t, limiter, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRateLimit_Denied(t *testing.T) {
	limiter := &stubLimiter{allowed: false}

	err := runRateLimit(t, limiter, nil)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", httpErr.Code)
	}
}

func TestRateLimit_CounterErrorFailsOpen(t *testing.T) {
	limiter := &stubLimiter{allowed: false, err: errors.New("redis down")}
	if err := runRateLimit(t, limiter, nil); err != nil {
		t.Fatalf("expected fail open, got %v", err)
	}
}

func TestRateLimit_KeysByUserWhenAuthenticated(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	user := domain.User{ID: 3, Name: "Lama"}

	if err := runRateLimit(t, limiter, &user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limiter.lastCaller != "user:3" {
		t.Errorf("expected caller user:3, got %q", limiter.lastCaller)
	}
}

func TestRateLimit_KeysByIPWhenAnonymous(t *testing.T) {
	limiter := &stubLimiter{allowed: true}

	if err := runRateLimit(t, limiter, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limiter.lastCaller == "" || limiter.lastCaller[:3] != "ip:" {
		t.Errorf("expected ip-keyed caller, got %q", limiter.lastCaller)
	}
}
