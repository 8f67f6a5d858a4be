package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opsdesk/approvals/internal/api/metrics"
	"github.com/opsdesk/approvals/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the domain error taxonomy to its HTTP status codes
//     (Unauthenticated 401, Forbidden 403, NotFound 404, InvalidState and
//     InvalidInput 400) with the error message surfaced verbatim.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		metrics.WorkflowErrorsTotal.WithLabelValues("unauthenticated").Inc()
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		metrics.WorkflowErrorsTotal.WithLabelValues("forbidden").Inc()
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		metrics.WorkflowErrorsTotal.WithLabelValues("not_found").Inc()
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidState):
		metrics.WorkflowErrorsTotal.WithLabelValues("invalid_state").Inc()
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		metrics.WorkflowErrorsTotal.WithLabelValues("invalid_input").Inc()
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	metrics.WorkflowErrorsTotal.WithLabelValues("internal").Inc()
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
