package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/userhub/userhub-go/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users         map[string]*domain.User
	createUserErr error
	deleted       []string
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockRepository) CreateUser(_ context.Context, user *domain.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	if _, ok := m.users[user.Email]; ok {
		return ErrEmailExists
	}
	user.ID = "test-user-id"
	m.users[user.Email] = user
	return nil
}

func (m *mockRepository) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) ListUsers(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockRepository) UpdateUser(_ context.Context, _ *domain.User) error {
	return nil
}

func (m *mockRepository) DeleteUser(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// mockAuthenticator implements Authenticator for testing.
type mockAuthenticator struct {
	generateErr error
}

func (m *mockAuthenticator) GenerateToken(_ context.Context, _ *domain.User) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "access-token", nil
}

func (m *mockAuthenticator) ValidateToken(_ context.Context, _ string) (string, domain.Role, error) {
	return "", "", nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, &mockAuthenticator{}, NewPasswordHasher(bcrypt.MinCost))
}

func TestRegister_CreatesUserWithDefaultRole(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service := newTestService(repo)

	// Act
	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "test-user-id", user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, NewPasswordHasher(bcrypt.MinCost).Verify("password123", user.Password))
}

func TestRegister_EmailAlreadyExists(t *testing.T) {
	repo := newMockRepository()
	repo.users["existing@example.com"] = &domain.User{Email: "existing@example.com"}
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "existing@example.com",
		Password: "password123",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegister_DuplicateInsertRace(t *testing.T) {
	// The pre-check passes but the store's unique constraint trips;
	// the race must surface as the same business error, not a crash.
	repo := newMockRepository()
	repo.createUserErr = ErrEmailExists
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegister_CreateUserFails(t *testing.T) {
	repo := newMockRepository()
	repo.createUserErr = errors.New("database error")
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Nil(t, user)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)
}

func registerTestUser(t *testing.T, service *Service, email, password string) *domain.User {
	t.Helper()
	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func TestLogin_Success(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)
	registerTestUser(t, service, "test@example.com", "password123")

	token, err := service.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "access-token", token)
}

func TestLogin_UnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)
	registerTestUser(t, service, "test@example.com", "password123")

	_, unknownErr := service.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	_, wrongErr := service.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongErr)
}

func TestLogin_TokenGenerationFails(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &mockAuthenticator{generateErr: errors.New("sign error")}, NewPasswordHasher(bcrypt.MinCost))
	registerTestUser(t, NewService(repo, &mockAuthenticator{}, NewPasswordHasher(bcrypt.MinCost)), "test@example.com", "password123")

	token, err := service.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Empty(t, token)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateUserName(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)
	created := registerTestUser(t, service, "test@example.com", "password123")

	updated, err := service.UpdateUserName(context.Background(), created.ID, "New Name")

	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
}

func TestUpdateUserName_NotFound(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	updated, err := service.UpdateUserName(context.Background(), "missing-id", "New Name")

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	require.NoError(t, service.DeleteUser(context.Background(), "some-id"))
	assert.Equal(t, []string{"some-id"}, repo.deleted)
}
