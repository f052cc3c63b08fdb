package driven

import "github.com/portico-labs/portico/internal/core/domain"

// AuthAdapter handles admin key verification and token operations
type AuthAdapter interface {
	// HashKey generates a hash of an admin key for storage
	HashKey(key string) (string, error)

	// VerifyKey checks a presented key against a stored hash
	VerifyKey(key, hash string) bool

	// GenerateToken creates a signed token from claims
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ParseToken validates a token string and extracts claims
	ParseToken(token string) (*domain.TokenClaims, error)
}
