package state

import (
	"context"
	"everywrite/models"
	"everywrite/validator"
	"log/slog"
)

// UserRegistry is what the auth state needs from the user repository
type UserRegistry interface {
	Register(ctx context.Context, user *models.User) bool
	Login(ctx context.Context, email, password string) (*models.User, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
}

// Messages shown after the form itself passed validation
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailTaken         = "Email is already registered"
	MsgUsernameTaken      = "Username is already taken"
	MsgRegistrationFailed = "Registration failed"
)

// AuthState holds the login and signup screen state
type AuthState struct {
	users     UserRegistry
	validator *validator.Validator
	logger    *slog.Logger

	IsLoggedIn  *Value[bool]
	CurrentUser *Value[*models.User]
	LoginError  *Value[string]
	SignupError *Value[string]
	IsLoading   *Value[bool]
}

// NewAuthState creates a logged-out auth state
func NewAuthState(users UserRegistry, v *validator.Validator, logger *slog.Logger) *AuthState {
	if v == nil {
		v = validator.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthState{
		users:       users,
		validator:   v,
		logger:      logger,
		IsLoggedIn:  NewValue(false),
		CurrentUser: NewValue[*models.User](nil),
		LoginError:  NewValue(""),
		SignupError: NewValue(""),
		IsLoading:   NewValue(false),
	}
}

// Login checks the credentials and logs the user in. Failures are reported
// through LoginError and a false return.
func (s *AuthState) Login(ctx context.Context, email, password string) bool {
	if msg := s.validator.FormMessage(models.LoginRequest{Email: email, Password: password}); msg != "" {
		s.LoginError.Set(msg)
		return false
	}

	s.IsLoading.Set(true)
	s.LoginError.Set("")
	defer s.IsLoading.Set(false)

	user, err := s.users.Login(ctx, email, password)
	if err != nil {
		s.logger.Error("login failed", "error", err)
		s.LoginError.Set("Login failed: " + err.Error())
		return false
	}
	if user == nil {
		s.LoginError.Set(MsgInvalidCredentials)
		return false
	}

	s.CurrentUser.Set(user)
	s.IsLoggedIn.Set(true)
	return true
}

// Signup validates the form, registers the user and logs them in.
func (s *AuthState) Signup(ctx context.Context, email, username, password, confirmPassword string) bool {
	req := models.SignupRequest{
		Email:           email,
		Username:        username,
		Password:        password,
		ConfirmPassword: confirmPassword,
	}
	if msg := s.validator.FormMessage(req); msg != "" {
		s.SignupError.Set(msg)
		return false
	}

	s.IsLoading.Set(true)
	s.SignupError.Set("")
	defer s.IsLoading.Set(false)

	emailTaken, err := s.users.IsEmailTaken(ctx, email)
	if err != nil {
		return s.signupFailed(err)
	}
	usernameTaken, err := s.users.IsUsernameTaken(ctx, username)
	if err != nil {
		return s.signupFailed(err)
	}

	switch {
	case emailTaken:
		s.SignupError.Set(MsgEmailTaken)
		return false
	case usernameTaken:
		s.SignupError.Set(MsgUsernameTaken)
		return false
	}

	user := &models.User{Email: email, Username: username, Password: password}
	if !s.users.Register(ctx, user) {
		s.SignupError.Set(MsgRegistrationFailed)
		return false
	}

	s.CurrentUser.Set(user)
	s.IsLoggedIn.Set(true)
	return true
}

func (s *AuthState) signupFailed(err error) bool {
	s.logger.Error("signup failed", "error", err)
	s.SignupError.Set(MsgRegistrationFailed + ": " + err.Error())
	return false
}

// Logout forgets the current user
func (s *AuthState) Logout() {
	s.IsLoggedIn.Set(false)
	s.CurrentUser.Set(nil)
}

// ClearErrors resets both form errors
func (s *AuthState) ClearErrors() {
	s.LoginError.Set("")
	s.SignupError.Set("")
}
