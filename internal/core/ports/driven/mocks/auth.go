package mocks

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/portico-labs/portico/internal/core/domain"
)

// MockAuthAdapter is a mock implementation of AuthAdapter for testing.
// Hashes and tokens are transparent strings, not real crypto.
type MockAuthAdapter struct{}

// NewMockAuthAdapter creates a new MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{}
}

func (m *MockAuthAdapter) HashKey(key string) (string, error) {
	return "hashed:" + key, nil
}

func (m *MockAuthAdapter) VerifyKey(key, hash string) bool {
	return hash == "hashed:"+key
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	data, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return "token:" + string(data), nil
}

func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	data, ok := strings.CutPrefix(token, "token:")
	if !ok {
		return nil, errors.New("malformed token")
	}
	var claims domain.TokenClaims
	if err := json.Unmarshal([]byte(data), &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}
