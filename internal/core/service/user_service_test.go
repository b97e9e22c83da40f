package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

var (
	testSignupRoles  = []string{domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse, domain.RoleReceptionist}
	testManagedRoles = []string{domain.RoleAdmin, domain.RoleDoctor, domain.RoleReceptionist}
)

func newUserService(repo *stubUserRepo) *UserService {
	return NewUserService(repo, testSignupRoles, testManagedRoles, zerolog.Nop())
}

func TestUserService_CreateInitial_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)

	user, err := svc.CreateInitial(context.Background(), ports.CreateUserInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "pass123",
		Role:     domain.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if !user.Active {
		t.Fatalf("new accounts must start active")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserService_CreateInitial_AcceptsNurse(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)

	// The signup set still carries the legacy nurse role.
	if _, err := svc.CreateInitial(context.Background(), ports.CreateUserInput{
		Name: "Nia", Email: "nia@example.com", Password: "pass123", Role: domain.RoleNurse,
	}); err != nil {
		t.Fatalf("expected nurse accepted at signup, got %v", err)
	}

	// The managed set does not.
	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Noa", Email: "noa@example.com", Password: "pass123", Role: domain.RoleNurse,
	}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole for managed nurse, got %v", err)
	}
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	svc := newUserService(newStubUserRepo())

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Bob", Email: "bob@example.com", Password: "pass123", Role: "janitor",
	}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "taken@example.com", "pass123", domain.RoleDoctor, true)
	svc := newUserService(repo)

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Copy", Email: "taken@example.com", Password: "pass123", Role: domain.RoleDoctor,
	}); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Update(t *testing.T) {
	repo := newStubUserRepo()
	seeded := repo.add(t, "carl@example.com", "pass123", domain.RoleReceptionist, true)
	svc := newUserService(repo)

	if err := svc.Update(context.Background(), seeded.ID, ports.UserUpdate{}); err != domain.ErrNoFields {
		t.Fatalf("expected ErrNoFields for empty update, got %v", err)
	}

	badRole := "janitor"
	if err := svc.Update(context.Background(), seeded.ID, ports.UserUpdate{Role: &badRole}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	newRole := domain.RoleDoctor
	if err := svc.Update(context.Background(), seeded.ID, ports.UserUpdate{Role: &newRole}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	updated, err := repo.FindByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if updated.Role != domain.RoleDoctor {
		t.Fatalf("role not applied: %s", updated.Role)
	}
}

func TestUserService_SoftDelete(t *testing.T) {
	repo := newStubUserRepo()
	seeded := repo.add(t, "dana@example.com", "pass123", domain.RoleDoctor, true)
	svc := newUserService(repo)

	if err := svc.SoftDelete(context.Background(), seeded.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	// The row survives, only the flag flips.
	u, err := repo.FindByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("expected row to survive, got %v", err)
	}
	if u.Active {
		t.Fatalf("expected account deactivated")
	}

	if err := svc.SoftDelete(context.Background(), 9999); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
