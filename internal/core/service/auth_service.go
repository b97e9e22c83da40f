package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

// AuthService implements login and token-identity resolution.
type AuthService struct {
	users    ports.UserRepository
	tokens   *TokenService
	throttle ports.LoginThrottle // nil disables throttling
	logger   zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *TokenService, throttle ports.LoginThrottle, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, throttle: throttle, logger: logger}
}

// Login authenticates by email and password.
//
// Failure modes deliberately collapse to two responses: a deactivated
// account answers "user deactivated", every other failure (unknown
// email, wrong password) answers the generic "invalid credentials" so
// callers cannot enumerate registered emails.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.TooMany(ctx, email)
		if err != nil {
			// Throttle backend trouble must not lock everyone out.
			s.logger.Warn().Err(err).Msg("login throttle unavailable")
		} else if blocked {
			return "", nil, domain.ErrTooManyLogins
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.Active {
		return "", nil, domain.ErrUserDeactivated
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("login")
	return token, user, nil
}

// Verify resolves an already-authenticated user id to its summary.
func (s *AuthService) Verify(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle record failed")
	}
}
