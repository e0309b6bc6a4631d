package services

import (
	"context"
	"everywrite/metrics"
	"everywrite/models"
	"log/slog"
)

// Demo account created on first launch
const (
	DemoEmail    = "demo@everywrite.com"
	DemoUsername = "demo"
	DemoPassword = "demo123"
)

// UserService wraps user storage without adding validation; callers are
// expected to have validated input already.
type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{repo: repo, logger: logger}
}

// Register stores user and reports success. Storage errors, including a
// duplicate email, come back as false.
func (us *UserService) Register(ctx context.Context, user *models.User) bool {
	if user.CreatedAt == 0 {
		user.CreatedAt = models.NowMillis()
	}

	if err := us.repo.InsertUser(ctx, user); err != nil {
		us.logger.Debug("register failed", "email", user.Email, "error", err)
		metrics.TrackAuthAttempt("register", false)
		return false
	}

	metrics.TrackAuthAttempt("register", true)
	return true
}

// Login returns the user matching email and password, or nil.
func (us *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := us.repo.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	metrics.TrackAuthAttempt("login", user != nil)
	return user, nil
}

func (us *UserService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	user, err := us.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (us *UserService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	user, err := us.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (us *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return us.repo.GetUserByEmail(ctx, email)
}

// SeedDemoUser registers the demo account unless its email is already taken.
func (us *UserService) SeedDemoUser(ctx context.Context) error {
	taken, err := us.IsEmailTaken(ctx, DemoEmail)
	if err != nil {
		return err
	}
	if taken {
		return nil
	}

	if us.Register(ctx, &models.User{
		Email:    DemoEmail,
		Username: DemoUsername,
		Password: DemoPassword,
	}) {
		us.logger.Info("demo account created", "email", DemoEmail)
	}
	return nil
}
