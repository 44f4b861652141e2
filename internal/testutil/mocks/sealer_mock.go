package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockSealer is a mock implementation of encryption.Sealer.
type MockSealer struct {
	mock.Mock
}

// Seal encrypts plaintext for key.
func (m *MockSealer) Seal(key string, plaintext []byte) (string, error) {
	args := m.Called(key, plaintext)
	return args.String(0), args.Error(1)
}

// Open decrypts ciphertext stored under key.
func (m *MockSealer) Open(key string, ciphertext string) ([]byte, error) {
	args := m.Called(key, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
