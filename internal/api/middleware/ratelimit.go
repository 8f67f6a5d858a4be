package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Limiter is the rate-limit counter the middleware consults.
type Limiter interface {
	Allow(ctx context.Context, resource, caller string) (bool, error)
}

// RateLimit enforces a per-caller request budget on the wrapped routes,
// keyed by authenticated user id when available and remote IP otherwise.
// A nil limiter or a counter error fails open.
func RateLimit(limiter Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil {
				return next(c)
			}

			caller := "ip:" + c.RealIP()
			if user, ok := UserFromContext(c); ok {
				caller = fmt.Sprintf("user:%d", user.ID)
			}

			allowed, err := limiter.Allow(c.Request().Context(), c.Path(), caller)
			if err != nil {
				return next(c)
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
