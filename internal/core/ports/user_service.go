package ports

import (
	"context"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
)

// CreateUserInput is the payload for both user creation entry points.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserService manages staff accounts.
type UserService interface {
	// CreateInitial is the public signup entry point. It validates the
	// role against the signup role set, which still includes the legacy
	// "nurse" value.
	CreateInitial(ctx context.Context, input CreateUserInput) (*domain.User, error)
	// Create is the admin-only entry point; its role set excludes "nurse".
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, upd UserUpdate) error
	SoftDelete(ctx context.Context, id int64) error
}
