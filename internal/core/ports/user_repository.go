package ports

import (
	"context"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
)

// UserUpdate carries the optional fields of a partial user update.
// Nil pointers mean "leave unchanged". The field set doubles as the
// static allow-list of mutable columns.
type UserUpdate struct {
	Name   *string
	Email  *string
	Role   *string
	Active *bool
}

// Empty reports whether no field was supplied.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Role == nil && u.Active == nil
}

// UserRepository persists staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// RoleByID returns only the current role; the authorization
	// middleware calls it on every guarded request.
	RoleByID(ctx context.Context, id int64) (string, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id int64, upd UserUpdate) error
	// Deactivate soft-deletes: flips is_active, keeps the row.
	Deactivate(ctx context.Context, id int64) error
}
