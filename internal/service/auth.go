package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/promptforge/promptforge/internal/auth"
	"github.com/promptforge/promptforge/internal/metrics"
	"github.com/promptforge/promptforge/internal/model"
	"github.com/promptforge/promptforge/internal/repository"
)

// Account service errors.
var (
	ErrMissingFields      = errors.New("name, email, and password are required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const minPasswordLength = 8

// AuthService handles registration and credential authentication.
type AuthService struct {
	store        UserStore
	basicDefault int
	proDefault   int
	metrics      metrics.Recorder
}

// NewAuthService creates a new AuthService. The defaults are the quota
// budgets granted to newly registered users.
func NewAuthService(store UserStore, basicDefault, proDefault int, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		store:        store,
		basicDefault: basicDefault,
		proDefault:   proDefault,
		metrics:      recorder,
	}
}

// NormalizeEmail lowercases and trims an email address. All lookups and
// uniqueness checks operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user with default quotas and a hashed
// password. The plaintext password is never stored or logged.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)

	if name == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:             ulid.Make().String(),
		Email:          email,
		Name:           name,
		PasswordHash:   hash,
		BasicRemaining: s.basicDefault,
		ProRemaining:   s.proDefault,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// The unique index on email resolves the duplicate race: of two
	// concurrent registrations, exactly one insert succeeds.
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Authenticate validates credentials and returns the user record.
// Unknown email and wrong password both return ErrInvalidCredentials so
// the response reveals nothing about which field was wrong.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLoginSuccess()

	return user, nil
}
