package services

import (
	"context"
	"fmt"
	"time"

	"meetingplanner/internal/domain"
)

type authService struct {
	hasher       domain.PasswordHasher
	issuer       domain.TokenIssuer
	passwordHash string
	tokenExpiry  time.Duration
}

// NewAuthService creates an AuthService checking passwords against passwordHash.
// With an empty hash every login is rejected.
func NewAuthService(hasher domain.PasswordHasher, issuer domain.TokenIssuer, passwordHash string, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		hasher:       hasher,
		issuer:       issuer,
		passwordHash: passwordHash,
		tokenExpiry:  tokenExpiry,
	}
}

func (s *authService) Login(ctx context.Context, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.passwordHash == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(s.passwordHash, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.issuer.Issue(domain.OwnerSubject, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
