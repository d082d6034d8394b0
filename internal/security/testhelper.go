package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// testSigningKey is used only by NewTestToken; the console never verifies signatures.
var testSigningKey = []byte("console-test-signing-key")

// NewTestToken returns an HS256-signed token carrying the given identity, for tests.
func NewTestToken(username, email, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: username,
		Email:    email,
		Role:     role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
}
