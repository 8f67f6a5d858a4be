package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/approvals/internal/core/domain"
	"github.com/opsdesk/approvals/internal/core/ports"
)

// userContextKey is where the resolved directory user is stored on the
// echo context.
const userContextKey = "user"

// Auth resolves the caller's identity and injects the directory user into
// the context. Identity comes from the user-id header, or from a bearer
// token minted by the token endpoint; the header takes precedence when both
// are present. Absence or an unresolvable id yields 401.
func Auth(directory *domain.Directory, tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := c.Request().Header.Get("user-id"); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "Missing user-id in header")
				}
				user, ok := directory.Lookup(id)
				if !ok {
					return echo.NewHTTPError(http.StatusUnauthorized, "Missing user-id in header")
				}
				c.Set(userContextKey, user)
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing user-id in header")
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing user-id in header")
			}

			user, err := tokens.Resolve(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing user-id in header")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the directory user injected by Auth.
func UserFromContext(c echo.Context) (domain.User, bool) {
	user, ok := c.Get(userContextKey).(domain.User)
	return user, ok
}
