package ports

import "github.com/opsdesk/approvals/internal/core/domain"

// TokenService mints and verifies bearer tokens for directory users. Tokens
// are a convenience alternative to the user-id header; both resolve to the
// same fixed directory.
type TokenService interface {
	Mint(user domain.User) (string, error)
	// Resolve verifies the token signature and expiry and returns the
	// directory user it identifies.
	Resolve(token string) (domain.User, error)
}
