package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

// UserService manages staff accounts. The two creation entry points
// carry different allowed-role sets: public signup still honours the
// legacy set (including "nurse"), admin creation uses the managed set.
// Both sets come from configuration so the mismatch stays visible and
// tunable instead of hard-coded.
type UserService struct {
	repo    ports.UserRepository
	signup  map[string]struct{}
	managed map[string]struct{}
	logger  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, signupRoles, managedRoles []string, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:    repo,
		signup:  roleSet(signupRoles),
		managed: roleSet(managedRoles),
		logger:  logger,
	}
}

func roleSet(roles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// CreateInitial is the public signup entry point.
func (s *UserService) CreateInitial(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.create(ctx, input, s.signup)
}

// Create is the admin-only entry point.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.create(ctx, input, s.managed)
}

func (s *UserService) create(ctx context.Context, input ports.CreateUserInput, allowed map[string]struct{}) (*domain.User, error) {
	if _, ok := allowed[input.Role]; !ok {
		return nil, domain.ErrInvalidRole
	}

	// Pre-check for a friendlier conflict response. A concurrent create
	// can still slip past it; the unique constraint on email is the
	// authority and the repository translates its violation.
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Active:       true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user created")
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies the supplied subset of mutable fields. Role changes are
// validated against the managed set and take effect on the target user's
// very next request, since authorization re-reads the role per call.
func (s *UserService) Update(ctx context.Context, id int64, upd ports.UserUpdate) error {
	if upd.Empty() {
		return domain.ErrNoFields
	}
	if upd.Role != nil {
		if _, ok := s.managed[*upd.Role]; !ok {
			return domain.ErrInvalidRole
		}
	}
	return s.repo.Update(ctx, id, upd)
}

// SoftDelete deactivates the account. The row is kept; subsequent logins
// fail as "user deactivated".
func (s *UserService) SoftDelete(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deactivated")
	return nil
}
