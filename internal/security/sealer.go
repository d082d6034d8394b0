package security

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	sealedPrefix = "sealed:v1:"
	sealSalt     = "admin-console/state"
	sealInfo     = "persisted-state seal v1"
)

var (
	// ErrEmptySecret is returned when NewSealer is given no secret.
	ErrEmptySecret = errors.New("security: seal secret is empty")
	// ErrNotSealed is returned by Open for values not produced by Seal.
	ErrNotSealed = errors.New("security: value is not sealed")
)

// Sealer encrypts persisted values at rest with XChaCha20-Poly1305.
// The key is derived from a configured secret with HKDF-SHA256.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the sealing key from secret.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), []byte(sealSalt), []byte(sealInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("security: derive seal key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("security: new seal cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext; additional binds the ciphertext to its storage key.
func (s *Sealer) Seal(plaintext, additional string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("security: seal nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), []byte(additional))
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(out), nil
}

// Open decrypts a value produced by Seal with the same additional data.
func (s *Sealer) Open(sealed, additional string) (string, error) {
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return "", ErrNotSealed
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("security: decode sealed value: %w", err)
	}
	ns := s.aead.NonceSize()
	if len(raw) < ns+s.aead.Overhead() {
		return "", ErrNotSealed
	}
	plain, err := s.aead.Open(nil, raw[:ns], raw[ns:], []byte(additional))
	if err != nil {
		return "", fmt.Errorf("security: open sealed value: %w", err)
	}
	return string(plain), nil
}
