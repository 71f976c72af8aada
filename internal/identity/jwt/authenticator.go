// Package jwt issues and validates HMAC-signed session tokens.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/campushq/enrollhub/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config holds token signing settings.
type Config struct {
	SecretKey     string
	Issuer        string
	Audience      string
	TokenDuration time.Duration
}

// Authenticator issues and validates signed session tokens.
type Authenticator struct {
	config Config
}

// New creates a new Authenticator.
func New(config Config) *Authenticator {
	return &Authenticator{config: config}
}

type sessionClaims struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Issue produces a signed token for the user carrying their role names. Each
// token gets a unique id claim.
func (a *Authenticator) Issue(user *domain.User, roleNames []string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Name:  user.Email,
		Roles: roleNames,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    a.config.Issuer,
			Audience:  jwt.ClaimStrings{a.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.config.TokenDuration)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning the subject id and role
// claims. Signature, expiry, issuer, and audience are all checked.
func (a *Authenticator) Validate(tokenString string) (string, []string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(a.config.SecretKey), nil
		},
		jwt.WithIssuer(a.config.Issuer),
		jwt.WithAudience(a.config.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return "", nil, errors.New("invalid token")
	}

	return claims.Subject, claims.Roles, nil
}
