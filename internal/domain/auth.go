package domain

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidCredentials is returned when the API password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// OwnerSubject is the token subject of the single schedule owner.
const OwnerSubject = "owner"

// PasswordHasher hashes and verifies the API password.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	Hash(password string) (hash string, err error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for the authenticated owner.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// AuthService exchanges the API password for a bearer token.
type AuthService interface {
	Login(ctx context.Context, password string) (token string, err error)
}
