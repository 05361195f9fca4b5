package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sakif/mesto-api/internal/apperror"
	"github.com/sakif/mesto-api/internal/model"
	"github.com/sakif/mesto-api/internal/repository"
)

// Field length rules shared by profile and card names.
const (
	MinNameLength = 2
	MaxNameLength = 30
)

// UserService handles profile reads and self-service updates.
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// List returns every registered user.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by id. A malformed id is the caller's error and
// maps to BadRequest; a well-formed id with no record maps to NotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "user", id)
	}
	return user, nil
}

// GetSelf retrieves the caller's own record. The identity comes from the
// verified token, so a missing record means it was deleted concurrently.
func (s *UserService) GetSelf(ctx context.Context, identity string) (*model.User, error) {
	return s.GetByID(ctx, identity)
}

// UpdateProfile updates name and about on the caller's own record. There
// is no path that accepts a client-supplied target id — the identity from
// the token is the only record that can change.
func (s *UserService) UpdateProfile(ctx context.Context, identity, name, about string) (*model.User, error) {
	name = strings.TrimSpace(name)
	about = strings.TrimSpace(about)

	if err := validateNameLength("name", name); err != nil {
		return nil, err
	}
	if err := validateNameLength("about", about); err != nil {
		return nil, err
	}

	user, err := s.repo.UpdateProfile(ctx, identity, name, about)
	if err != nil {
		return nil, mapLookupError(err, "user", identity)
	}

	s.logger.Info("profile updated", slog.String("userID", identity))
	return user, nil
}

// UpdateAvatar updates the avatar URL on the caller's own record.
func (s *UserService) UpdateAvatar(ctx context.Context, identity, avatar string) (*model.User, error) {
	if err := validateLink("avatar", avatar); err != nil {
		return nil, err
	}

	user, err := s.repo.UpdateAvatar(ctx, identity, avatar)
	if err != nil {
		return nil, mapLookupError(err, "user", identity)
	}

	s.logger.Info("avatar updated", slog.String("userID", identity))
	return user, nil
}

// mapLookupError translates store sentinels into taxonomy members. Every
// other store failure stays wrapped and surfaces as an internal error.
func mapLookupError(err error, resource, id string) error {
	switch {
	case errors.Is(err, repository.ErrMalformedID):
		return apperror.BadRequest("invalid id")
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(resource, id)
	default:
		return fmt.Errorf("looking up %s %s: %w", resource, id, err)
	}
}

func validateNameLength(field, value string) error {
	if value == "" {
		return apperror.ValidationFailed(field, field+" is required")
	}
	if n := len([]rune(value)); n < MinNameLength || n > MaxNameLength {
		return apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be between %d and %d characters", field, MinNameLength, MaxNameLength))
	}
	return nil
}

// validateLink accepts absolute http(s) URLs only.
func validateLink(field, value string) error {
	if value == "" {
		return apperror.ValidationFailed(field, field+" is required")
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperror.ValidationFailed(field, field+" must be a valid URL")
	}
	return nil
}
