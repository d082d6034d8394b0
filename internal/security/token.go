package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is not a well-formed JWT.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the subset of the backend's access-token claims the console reads.
// Signature verification is the backend's job; the console only reads identity hints.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	UserName string `json:"userName,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// DisplayName returns the first non-empty of username, userName and subject.
func (c *Claims) DisplayName() string {
	switch {
	case c.Username != "":
		return c.Username
	case c.UserName != "":
		return c.UserName
	default:
		return c.Subject
	}
}

// Expired reports whether the token carries an exp claim at or before now.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.After(now)
}

// WellFormedToken reports whether token has exactly three non-empty dot-separated segments.
// Structural check only: no decoding, no signature check, never panics.
func WellFormedToken(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// ParseClaims decodes the claims of a well-formed token without verifying its signature.
func ParseClaims(token string) (*Claims, error) {
	if !WellFormedToken(token) {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
