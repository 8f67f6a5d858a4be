package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/approvals/internal/api/middleware"
	"github.com/opsdesk/approvals/internal/core/domain"
)

// currentUser extracts the directory user injected by the Auth middleware.
// Its presence proves the middleware ran; a handler reached without it is a
// wiring error and fails closed with 401.
func currentUser(c echo.Context) (domain.User, error) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return domain.User{}, echo.NewHTTPError(http.StatusUnauthorized, "Missing user-id in header")
	}
	return user, nil
}

// requestID parses the :id path parameter. A non-integer id can never
// resolve to a row, so it reports NotFound rather than a parse failure.
func requestID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.ErrRequestNotFound
	}
	return id, nil
}
