package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/approvals/internal/core/domain"
	"github.com/opsdesk/approvals/internal/core/ports"
)

// AuthHandler mints bearer tokens for directory users. The token is a
// convenience for API clients; the user-id header works without one.
type AuthHandler struct {
	directory *domain.Directory
	tokens    ports.TokenService
}

func NewAuthHandler(directory *domain.Directory, tokens ports.TokenService) *AuthHandler {
	return &AuthHandler{directory: directory, tokens: tokens}
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, ok := h.directory.Lookup(req.UserID)
	if !ok {
		return domain.NotFound("User not found")
	}

	token, err := h.tokens.Mint(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}
