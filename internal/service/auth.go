package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/repo"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// AuthService registers users and verifies credentials. Session handling
// lives in the middleware package.
type AuthService struct {
	users repo.UserRepo
	cost  int
}

// NewAuthService constructs an AuthService hashing with bcrypt.DefaultCost.
func NewAuthService(users repo.UserRepo) *AuthService {
	return &AuthService{users: users, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy of s hashing at the given bcrypt cost.
// Tests use bcrypt.MinCost to stay fast.
func (s *AuthService) WithCost(cost int) *AuthService {
	c := *s
	c.cost = cost
	return &c
}

// Register creates an account. Emails are compared case-insensitively.
// Returns domain.ErrValidation for a malformed email or short password and
// domain.ErrConflict if the email is already registered.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: hash: %w", err)
	}

	u, err := s.users.Create(ctx, domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return u, nil
}

// Login returns the user whose credentials match.
// Unknown emails and wrong passwords both yield domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}
	return u, nil
}

// User resolves a session's user ID. A user deleted since the session was
// issued yields domain.ErrUnauthorized.
func (s *AuthService) User(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("service.AuthService.User: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.User: %w", err)
	}
	return u, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	return strings.ToLower(addr.Address), nil
}
