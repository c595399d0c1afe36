// Package envelope seals request and response payloads exchanged with the storefront clients.
//
// A sealed payload is base64url(nonce || ciphertext) where the ciphertext is the
// XChaCha20-Poly1305 encryption of the JSON document.
package envelope

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrMalformed = errors.New("envelope: malformed payload")
	ErrEmpty     = errors.New("envelope: empty payload")
)

var encoding = base64.RawURLEncoding

// Sealer encrypts and decrypts payloads with a shared symmetric key.
type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a 32-byte key.
func New(key []byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init envelope cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext under a fresh random nonce.
func (s *Sealer) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, plaintext, nil)
	return encoding.EncodeToString(sealed), nil
}

// Open authenticates and decrypts a sealed payload.
func (s *Sealer) Open(token string) ([]byte, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmpty
	}
	raw, err := encoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) < s.aead.NonceSize()+s.aead.Overhead() {
		return nil, ErrMalformed
	}
	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return plaintext, nil
}

// SealJSON marshals value and seals the resulting document.
func (s *Sealer) SealJSON(value any) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode envelope payload: %w", err)
	}
	return s.Seal(payload)
}

// OpenJSON opens token and unmarshals the document into dest.
func (s *Sealer) OpenJSON(token string, dest any) error {
	plaintext, err := s.Open(token)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
