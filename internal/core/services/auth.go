package services

import (
	"context"
	"time"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
	"github.com/portico-labs/portico/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// adminSubject is the only principal this service knows; the corpus is
// single-tenant, administered with one key.
const adminSubject = "admin"

// DefaultTokenTTL is how long issued admin tokens stay valid
const DefaultTokenTTL = 12 * time.Hour

// authService implements the AuthService interface
type authService struct {
	auth         driven.AuthAdapter
	adminKeyHash string
	tokenTTL     time.Duration
}

// NewAuthService creates a new AuthService. adminKeyHash is the bcrypt
// hash of the admin key; an empty hash disables authentication entirely
// (every attempt fails).
func NewAuthService(auth driven.AuthAdapter, adminKeyHash string, tokenTTL time.Duration) driving.AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &authService{
		auth:         auth,
		adminKeyHash: adminKeyHash,
		tokenTTL:     tokenTTL,
	}
}

// Authenticate exchanges the admin key for a signed token
func (s *authService) Authenticate(_ context.Context, req domain.TokenRequest) (*domain.TokenResponse, error) {
	if s.adminKeyHash == "" || req.AdminKey == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !s.auth.VerifyKey(req.AdminKey, s.adminKeyHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	token, err := s.auth.GenerateToken(&domain.TokenClaims{
		Subject:   adminSubject,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return nil, err
	}

	return &domain.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken validates a token and returns its claims
func (s *authService) ValidateToken(_ context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.auth.ParseToken(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if claims.IsExpired() {
		return nil, domain.ErrTokenExpired
	}
	if claims.Subject != adminSubject {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
