package ports

import (
	"context"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
)

// AuthService authenticates staff and resolves token identities.
type AuthService interface {
	// Login verifies credentials and returns a signed session token plus
	// the user summary. Deactivated accounts fail distinguishably from
	// bad credentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Verify resolves an authenticated user id to its current summary.
	Verify(ctx context.Context, userID int64) (*domain.User, error)
}

// TokenVerifier is the narrow surface the auth middleware needs.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// LoginThrottle limits repeated failed logins per email. Implementations
// are optional; a nil throttle disables limiting.
type LoginThrottle interface {
	TooMany(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
