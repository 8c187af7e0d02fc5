package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/form"
	"github.com/pkordes/traveler-registration/internal/repo"
)

// AdminUsername is the account seeded by EnsureAdmin.
const AdminUsername = "admin"

// UserService implements sign-in and operator registration.
type UserService struct {
	users repo.UserRepo
	cost  int
}

// NewUserService constructs a UserService backed by the provided repo.
func NewUserService(users repo.UserRepo) *UserService {
	return &UserService{users: users, cost: bcrypt.DefaultCost}
}

// Authenticate returns the user whose credentials match.
// Unknown users and wrong passwords both yield domain.ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Authenticate: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
	}
	return u, nil
}

// Register creates a new operator account.
// Returns domain.ErrValidation for missing fields or mismatched passwords and
// domain.ErrConflict when the username or email is taken.
func (s *UserService) Register(ctx context.Context, username, email, password, confirm string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case username == "":
		return domain.User{}, fmt.Errorf("%w: username is required", domain.ErrValidation)
	case email == "" || !form.ValidEmail(email):
		return domain.User{}, fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
	case password == "":
		return domain.User{}, fmt.Errorf("%w: password is required", domain.ErrValidation)
	case password != confirm:
		return domain.User{}, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	return s.create(ctx, username, email, password)
}

// EnsureAdmin seeds the admin account when the users table is empty and a
// password is configured. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("service.UserService.EnsureAdmin: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.create(ctx, AdminUsername, "admin@example.com", password); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) create(ctx context.Context, username, email, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.create: hash: %w", err)
	}
	u, err := s.users.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.create: %w", err)
	}
	return u, nil
}
