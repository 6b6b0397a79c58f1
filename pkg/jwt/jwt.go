package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidClaim = errors.New("invalid token claims")
)

// SessionClaims are the claims the backend puts into an access token
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Inspect decodes the token claims WITHOUT verifying the signature. The
// client never holds the signing key; the result is informational only and
// must not be used as proof of identity.
func Inspect(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser()
	claims := &SessionClaims{}

	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExpiresAt returns the expiry of the token, or the zero time when the
// token carries no exp claim or cannot be decoded
func ExpiresAt(tokenString string) time.Time {
	claims, err := Inspect(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
