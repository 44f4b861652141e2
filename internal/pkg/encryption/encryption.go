// Package encryption seals persisted console state with AES-256-GCM.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// Sealer protects values written to the state backend. The storage key is bound to the
// ciphertext as associated data, so a value moved under another key no longer opens.
type Sealer interface {
	// Seal encrypts plaintext for key and returns base64-encoded ciphertext.
	Seal(key string, plaintext []byte) (string, error)

	// Open decrypts base64-encoded ciphertext stored under key.
	Open(key string, ciphertext string) ([]byte, error)
}

// AESSealer implements Sealer using AES-256-GCM.
type AESSealer struct {
	gcm cipher.AEAD
}

// NewAESSealer creates a new AES-256-GCM sealer.
// The secret must be exactly 32 bytes, given raw or base64-encoded. A secret that decodes
// as base64 to anything other than 32 bytes is taken as raw.
func NewAESSealer(secret string) (*AESSealer, error) {
	keyBytes := []byte(secret)
	if decoded, err := base64.StdEncoding.DecodeString(secret); err == nil && len(decoded) == 32 {
		keyBytes = decoded
	}

	if len(keyBytes) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(keyBytes))
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESSealer{gcm: gcm}, nil
}

// Seal encrypts plaintext with a random nonce prepended to the ciphertext.
func (s *AESSealer) Seal(key string, plaintext []byte) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.gcm.Seal(nonce, nonce, plaintext, []byte(key))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal for the same key.
func (s *AESSealer) Open(key string, ciphertext string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.gcm.Open(nil, nonce, sealed, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

// GenerateKey generates a new random 32-byte key, base64-encoded.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// PlainSealer stores values base64-encoded without encryption. Used when no key is configured.
type PlainSealer struct{}

// NewPlainSealer creates a new PlainSealer.
func NewPlainSealer() *PlainSealer {
	return &PlainSealer{}
}

// Seal returns the plaintext as base64.
func (PlainSealer) Seal(key string, plaintext []byte) (string, error) {
	return base64.StdEncoding.EncodeToString(plaintext), nil
}

// Open decodes base64.
func (PlainSealer) Open(key string, ciphertext string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(ciphertext)
}
