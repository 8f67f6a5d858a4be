package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/approvals/internal/api/metrics"
	"github.com/opsdesk/approvals/internal/core/ports"
)

// RequestHandler handles HTTP requests for approval workflow operations.
// Role, ownership, and state checks live in the service layer; the handler
// only resolves identity, binds payloads, and maps results.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create handles POST /requests — creates a Draft request.
func (h *RequestHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.Create(c.Request().Context(), user, ports.CreateRequestInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		return err
	}

	metrics.RequestsCreatedTotal.WithLabelValues(string(created.Type)).Inc()
	return c.JSON(http.StatusCreated, toRequestResponse(created))
}

// ListOwn handles GET /requests — the caller's own requests, newest first.
func (h *RequestHandler) ListOwn(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	reqs, err := h.service.ListOwn(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestListResponse(reqs))
}

// ListPending handles GET /requests/pending — the approval queue.
func (h *RequestHandler) ListPending(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	reqs, err := h.service.ListPending(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestListResponse(reqs))
}

// Submit handles POST /requests/:id/submit — Draft to Submitted.
func (h *RequestHandler) Submit(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}

	updated, err := h.service.Submit(c.Request().Context(), user, id)
	if err != nil {
		return err
	}

	metrics.TransitionsTotal.WithLabelValues("submit").Inc()
	return c.JSON(http.StatusOK, toRequestResponse(updated))
}

// Approve handles POST /requests/:id/approve — Submitted to Approved.
func (h *RequestHandler) Approve(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}

	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Approve(c.Request().Context(), user, id, req.ApproverComment)
	if err != nil {
		return err
	}

	metrics.TransitionsTotal.WithLabelValues("approve").Inc()
	return c.JSON(http.StatusOK, toRequestResponse(updated))
}

// Reject handles POST /requests/:id/reject — Submitted to Rejected.
func (h *RequestHandler) Reject(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}

	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Reject(c.Request().Context(), user, id, req.ApproverComment)
	if err != nil {
		return err
	}

	metrics.TransitionsTotal.WithLabelValues("reject").Inc()
	return c.JSON(http.StatusOK, toRequestResponse(updated))
}

// Edit handles PATCH /requests/:id/edit — partial update of a Draft request.
func (h *RequestHandler) Edit(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}

	var req editRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Edit(c.Request().Context(), user, id, ports.EditRequestInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(updated))
}

// Delete handles DELETE /requests/:id — hard delete of a Draft request.
func (h *RequestHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
