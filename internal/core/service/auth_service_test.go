package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.nextID++
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) RoleByID(_ context.Context, id int64) (string, error) {
	u, ok := r.users[id]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return u.Role, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, upd ports.UserUpdate) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Active != nil {
		u.Active = *upd.Active
	}
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) add(t *testing.T, email, password, role string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := r.Create(context.Background(), &domain.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

type stubThrottle struct {
	blocked  bool
	failures int
	resets   int
}

func (s *stubThrottle) TooMany(_ context.Context, _ string) (bool, error) { return s.blocked, nil }
func (s *stubThrottle) RecordFailure(_ context.Context, _ string) error {
	s.failures++
	return nil
}
func (s *stubThrottle) Reset(_ context.Context, _ string) error {
	s.resets++
	return nil
}

func newAuthService(repo *stubUserRepo, throttle ports.LoginThrottle) *AuthService {
	tokens := NewTokenService("secret", time.Hour)
	return NewAuthService(repo, tokens, throttle, zerolog.Nop())
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	seeded := repo.add(t, "carol@example.com", "s3cret", domain.RoleAdmin, true)
	svc := newAuthService(repo, nil)

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.ID != seeded.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	userID, err := NewTokenService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if userID != seeded.ID {
		t.Fatalf("token user id = %d, want %d", userID, seeded.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "dave@example.com", "goodpass", domain.RoleDoctor, true)
	svc := newAuthService(repo, nil)

	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	// Unknown emails must be indistinguishable from wrong passwords.
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_EmptyCredentials(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), nil)

	if _, _, err := svc.Login(context.Background(), "", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Deactivated(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "erin@example.com", "s3cret", domain.RoleDoctor, false)
	svc := newAuthService(repo, nil)

	// Deactivation fails distinguishably even with correct credentials.
	if _, _, err := svc.Login(context.Background(), "erin@example.com", "s3cret"); err != domain.ErrUserDeactivated {
		t.Fatalf("expected ErrUserDeactivated, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "frank@example.com", "s3cret", domain.RoleDoctor, true)
	throttle := &stubThrottle{blocked: true}
	svc := newAuthService(repo, throttle)

	if _, _, err := svc.Login(context.Background(), "frank@example.com", "s3cret"); err != domain.ErrTooManyLogins {
		t.Fatalf("expected ErrTooManyLogins, got %v", err)
	}
}

func TestAuthService_Login_ThrottleBookkeeping(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "gina@example.com", "s3cret", domain.RoleDoctor, true)
	throttle := &stubThrottle{}
	svc := newAuthService(repo, throttle)

	_, _, _ = svc.Login(context.Background(), "gina@example.com", "wrong")
	if throttle.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", throttle.failures)
	}

	if _, _, err := svc.Login(context.Background(), "gina@example.com", "s3cret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected 1 reset, got %d", throttle.resets)
	}
}

func TestAuthService_Verify(t *testing.T) {
	repo := newStubUserRepo()
	seeded := repo.add(t, "hank@example.com", "s3cret", domain.RoleReceptionist, true)
	svc := newAuthService(repo, nil)

	user, err := svc.Verify(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if user.Email != "hank@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Verify(context.Background(), 9999); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
