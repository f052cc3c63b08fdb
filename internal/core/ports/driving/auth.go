package driving

import (
	"context"

	"github.com/portico-labs/portico/internal/core/domain"
)

// AuthService handles admin authentication
type AuthService interface {
	// Authenticate exchanges the admin key for a signed token
	Authenticate(ctx context.Context, req domain.TokenRequest) (*domain.TokenResponse, error)

	// ValidateToken validates a token and returns its claims
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}
