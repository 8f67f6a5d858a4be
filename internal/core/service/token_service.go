package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opsdesk/approvals/internal/core/domain"
)

// TokenService mints and verifies HS256 bearer tokens for directory users.
// The directory stays the source of truth: Resolve only trusts the token
// for identity and re-reads name and roles from the directory.
type TokenService struct {
	directory *domain.Directory
	secret    string
	tokenTTL  time.Duration
}

func NewTokenService(directory *domain.Directory, secret string, tokenTTL time.Duration) *TokenService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &TokenService{directory: directory, secret: secret, tokenTTL: tokenTTL}
}

// Mint signs a token identifying the given user.
func (s *TokenService) Mint(user domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

// Resolve verifies the token and returns the directory user it identifies.
func (s *TokenService) Resolve(token string) (domain.User, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.User{}, domain.Unauthenticated("Missing user-id in header")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return domain.User{}, domain.Unauthenticated("Missing user-id in header")
	}

	user, ok := s.directory.Lookup(int64(sub))
	if !ok {
		return domain.User{}, domain.Unauthenticated("Missing user-id in header")
	}
	return user, nil
}
