// Package jwt implements stateless bearer-token authentication using
// HMAC-signed JSON Web Tokens.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/userhub/userhub-go/internal/domain"
	"github.com/userhub/userhub-go/internal/identity"
)

// Config contains JWT authenticator configuration.
// The secret is long-lived, out-of-band configuration; the authenticator
// never generates or stores it.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// TokenUser is the identity embedded in token claims.
type TokenUser struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// Claims is the full token payload: registered timestamps plus the user.
type Claims struct {
	jwt.RegisteredClaims
	User TokenUser `json:"user"`
}

// Authenticator issues and verifies access tokens.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator creates a JWT authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.TokenDuration,
	}
}

// GenerateToken issues a signed token carrying the user's id and role.
// Each call produces an independent token; issued tokens are never mutated.
func (a *Authenticator) GenerateToken(_ context.Context, user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		User: TokenUser{
			ID:   user.ID,
			Role: user.Role,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry, returning the embedded
// identity. Verification is all-or-nothing: no claim is exposed unless the
// whole token checks out.
func (a *Authenticator) ValidateToken(_ context.Context, tokenString string) (string, domain.Role, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", "", identity.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", "", identity.ErrTokenMalformed
		default:
			return "", "", identity.ErrInvalidToken
		}
	}

	if !token.Valid || claims.User.ID == "" {
		return "", "", identity.ErrInvalidToken
	}

	return claims.User.ID, claims.User.Role, nil
}
