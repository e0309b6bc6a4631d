package services

import (
	"context"
	"errors"
	"everywrite/database"
	"everywrite/models"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

var _ UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) InsertUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Login(ctx context.Context, email, password string) (*models.User, error) {
	return m.user(m.Called(ctx, email, password))
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.user(m.Called(ctx, username))
}

func setupUserService(t *testing.T) *UserService {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	return NewUserService(database.NewRepository(db), nil)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	us := setupUserService(t)

	first := &models.User{Email: "a@example.com", Username: "alice", Password: "secret1"}
	assert.True(t, us.Register(ctx, first))
	assert.NotZero(t, first.CreatedAt)

	second := &models.User{Email: "a@example.com", Username: "mallory", Password: "other99"}
	assert.False(t, us.Register(ctx, second))

	stored, err := us.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestUserService_RegisterStorageError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	user := &models.User{Email: "x@example.com", Username: "x", Password: "p", CreatedAt: 5}
	repo.On("InsertUser", ctx, user).Return(errors.New("database is locked"))

	us := NewUserService(repo, nil)
	assert.False(t, us.Register(ctx, user))
	repo.AssertExpectations(t)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	us := setupUserService(t)

	user := &models.User{Email: "b@example.com", Username: "bob", Password: "hunter2"}
	require.True(t, us.Register(ctx, user))

	got, err := us.Login(ctx, "b@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	got, err = us.Login(ctx, "b@example.com", "wrong")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = us.Login(ctx, "nobody@example.com", "hunter2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserService_Taken(t *testing.T) {
	ctx := context.Background()
	us := setupUserService(t)
	require.True(t, us.Register(ctx, &models.User{Email: "c@example.com", Username: "carol", Password: "pw1234"}))

	taken, err := us.IsEmailTaken(ctx, "c@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = us.IsEmailTaken(ctx, "d@example.com")
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = us.IsUsernameTaken(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = us.IsUsernameTaken(ctx, "dave")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserService_TakenPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	boom := errors.New("io error")
	repo.On("GetUserByEmail", ctx, "e@example.com").Return(nil, boom)

	us := NewUserService(repo, nil)
	_, err := us.IsEmailTaken(ctx, "e@example.com")
	assert.ErrorIs(t, err, boom)
}

func TestUserService_SeedDemoUser(t *testing.T) {
	ctx := context.Background()
	us := setupUserService(t)

	require.NoError(t, us.SeedDemoUser(ctx))
	require.NoError(t, us.SeedDemoUser(ctx))

	demo, err := us.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	require.NotNil(t, demo)
	assert.Equal(t, DemoUsername, demo.Username)
}
