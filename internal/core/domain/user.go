package domain

import "time"

const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "recepcionista"

	// RoleNurse is a legacy value still accepted by the public signup
	// endpoint. It is never part of any route's allowed-role set.
	RoleNurse = "nurse"
)

// User models a staff account. Accounts are never removed, only
// deactivated: Active=false blocks login but keeps the row so that
// clinical histories authored by the user stay referenceable.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
