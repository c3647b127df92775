// Package identity provides user registration, authentication and account
// management.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/userhub/userhub-go/internal/domain"
)

// Authenticator issues and verifies access tokens.
type Authenticator interface {
	GenerateToken(ctx context.Context, user *domain.User) (string, error)
	ValidateToken(ctx context.Context, token string) (userID string, role domain.Role, err error)
}

// Service implements identity business logic.
type Service struct {
	repo   Repository
	auth   Authenticator
	hasher *PasswordHasher
}

// NewService creates a new identity service.
func NewService(repo Repository, auth Authenticator, hasher *PasswordHasher) *Service {
	return &Service{
		repo:   repo,
		auth:   auth,
		hasher: hasher,
	}
}

// RegisterInput contains normalized registration data.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new account with the default role.
// The email uniqueness pre-check keeps the common case friendly; a
// concurrent duplicate insert still surfaces as ErrEmailExists via the
// store's unique constraint.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     domain.RoleUser,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// LoginInput contains login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues an access token.
// Unknown email and wrong password are deliberately indistinguishable:
// both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user by email: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(ctx, user)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// ValidateToken verifies an access token and returns the embedded identity.
// Exposed so the auth middleware can use the service as its token validator.
func (s *Service) ValidateToken(ctx context.Context, token string) (string, domain.Role, error) {
	return s.auth.ValidateToken(ctx, token)
}

// GetUserByID returns the user with the given id.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// ListUsers returns all users ordered by creation time.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateUserName changes a user's display name.
func (s *Service) UpdateUserName(ctx context.Context, id, name string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = name
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user by id.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}
