// Package service contains the business rules: input validation, the
// existence and ownership checks, and the translation of store failures
// into taxonomy members. Handlers stay HTTP-only, repositories stay
// storage-only; everything in between lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/sakif/mesto-api/internal/apperror"
	"github.com/sakif/mesto-api/internal/auth"
	"github.com/sakif/mesto-api/internal/model"
	"github.com/sakif/mesto-api/internal/repository"
)

// MinPasswordLength matches the signup/signin contract.
const MinPasswordLength = 8

// credentialsMessage is shared by the unknown-email and wrong-password
// paths so the two are indistinguishable to the caller.
const credentialsMessage = "incorrect email or password"

// AuthService converts credentials into identities and identities into
// signed tokens.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account. The password is bcrypt-hashed before it
// reaches the store; the returned view carries only id and email, never
// the hash. A duplicate email surfaces as a Conflict.
func (s *AuthService) Register(ctx context.Context, email, password, name, about, avatar string) (*model.PublicUser, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		About:        about,
		Avatar:       avatar,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.Conflict("user already exists")
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	return user.Public(), nil
}

// Login checks the credentials and returns the user's id. Unknown email
// and wrong password both come back as the same Unauthorized error, so the
// response gives no signal about which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if err := validateCredentials(email, password); err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperror.Unauthorized(credentialsMessage)
		}
		s.logger.Error("failed to look up user by email", slog.String("error", err.Error()))
		return "", fmt.Errorf("service/auth: looking up credentials: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", apperror.Unauthorized(credentialsMessage)
	}

	return user.ID, nil
}

// IssueToken signs a seven-day access token for the given identity.
func (s *AuthService) IssueToken(userID string) (string, error) {
	token, err := s.tokens.Generate(userID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", userID, err)
	}
	return token, nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperror.ValidationFailed("email", "email must be a valid email address")
	}
	if len(password) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}
