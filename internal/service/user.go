package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/auth"
	"github.com/sakif/snippet-manager/internal/metrics"
	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/repository"
	"github.com/sakif/snippet-manager/internal/validate"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

var registerMessages = map[string]string{
	"name":     "Name is required",
	"email":    "Please include a valid email",
	"password": "Please enter a password with 6 or more characters",
}

// LoginInput is the payload for exchanging credentials for a token.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var loginMessages = map[string]string{
	"email":    "Please include a valid email",
	"password": "Password is required",
}

// AuthResult bundles the user record and the token issued for it.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// UserService handles account registration, login and lookup.
//
// DEPENDENCIES (injected via NewUserService):
//   - users      repository.UserRepository → read/write user records
//   - tokens     *auth.TokenService        → issue JWTs
//   - passwords  *auth.PasswordService     → bcrypt hashing
//   - logger     *slog.Logger              → structured logging
type UserService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService with all required dependencies.
func NewUserService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates an account and signs the new user in.
//
// Emails are trimmed and lower-cased before storage so lookups are case
// insensitive. A second account with the same email is apperror.ErrConflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	if err := validate.Struct(&in, registerMessages); err != nil {
		return nil, err
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("Password must be %d bytes or fewer", auth.MaxPasswordBytes))
	}

	_, err := s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperror.AlreadyExists("user", "email", in.Email)
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/user: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/user: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// A concurrent registration can still lose the race at the
		// unique index; that surfaces as ErrConflict unchanged.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: creating user: %w", err)
	}

	metrics.UsersRegisteredTotal.Inc()
	s.logger.Info("user registered", slog.String("userID", user.ID))

	return s.issue(user)
}

// Login verifies credentials and issues a token. An unknown email and a
// wrong password produce the same apperror.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)

	if err := validate.Struct(&in, loginMessages); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/user: looking up %s: %w", in.Email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/user: verifying password for %s: %w", user.ID, err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issue(user)
}

// GetUserByID returns the account for a verified identity.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthenticated("No token, authorization denied")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: fetching user %s: %w", id, err)
	}
	return user, nil
}

func (s *UserService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/user: generating token for %s: %w", user.ID, err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
