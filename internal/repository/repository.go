// Package repository defines the storage interfaces and the enumerated
// failure reasons the service layer branches on.
//
// The store reports failures as typed sentinels, not driver-specific error
// strings. Services translate them into taxonomy members: ErrMalformedID is
// a client error (the caller sent an id that cannot be a document key),
// ErrNotFound is a missing record, ErrDuplicateKey is a uniqueness
// violation. Any other error from a repository is an internal failure.
package repository

import (
	"context"
	"errors"

	"github.com/sakif/mesto-api/internal/model"
)

var (
	// ErrNotFound means no document exists for the given key.
	ErrNotFound = errors.New("repository: not found")
	// ErrMalformedID means the supplied id cannot be a document key
	// (wrong length or non-hex). Caller-induced, maps to 400 upstream.
	ErrMalformedID = errors.New("repository: malformed id")
	// ErrDuplicateKey means a unique index rejected the write
	// (e.g. an email that is already registered).
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail includes the password hash; it exists for credential
	// checks only and must not feed API responses directly.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id, name, about string) (*model.User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (*model.User, error)
}

type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id string) (*model.Card, error)
	List(ctx context.Context) ([]model.Card, error)
	Delete(ctx context.Context, id string) error
	// AddLike and RemoveLike are atomic set operations on the likes
	// array — never read-modify-write — and return the updated card.
	AddLike(ctx context.Context, cardID, userID string) (*model.Card, error)
	RemoveLike(ctx context.Context, cardID, userID string) (*model.Card, error)
}
