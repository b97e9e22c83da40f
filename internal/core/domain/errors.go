package domain

import "errors"

// Sentinel errors shared by services and repositories. The HTTP error
// handler maps each one to a deterministic status code.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDeactivated    = errors.New("user deactivated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTooManyLogins      = errors.New("too many login attempts")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidRole  = errors.New("role not allowed")

	ErrPatientNotFound     = errors.New("patient not found")
	ErrIdentificationTaken = errors.New("identification already registered")

	ErrHistoryNotFound = errors.New("clinical history not found")

	ErrNoSearchResults = errors.New("no patients matched the search")
	ErrNoFields        = errors.New("no fields to update")

	ErrForbidden = errors.New("forbidden")
)
