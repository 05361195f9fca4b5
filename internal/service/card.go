package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/mesto-api/internal/apperror"
	"github.com/sakif/mesto-api/internal/model"
	"github.com/sakif/mesto-api/internal/repository"
)

// CardService handles card CRUD with the ownership and existence rules.
type CardService struct {
	repo   repository.CardRepository
	logger *slog.Logger
}

func NewCardService(repo repository.CardRepository, logger *slog.Logger) *CardService {
	return &CardService{repo: repo, logger: logger}
}

// List returns every card.
func (s *CardService) List(ctx context.Context) ([]model.Card, error) {
	cards, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	return cards, nil
}

// Create validates and saves a new card owned by the caller. The owner is
// always the authenticated identity; there is no way to create a card on
// someone else's behalf.
func (s *CardService) Create(ctx context.Context, identity, name, link string) (*model.Card, error) {
	name = strings.TrimSpace(name)

	if err := validateNameLength("name", name); err != nil {
		return nil, err
	}
	if err := validateLink("link", link); err != nil {
		return nil, err
	}

	card := &model.Card{
		Name:  name,
		Link:  link,
		Owner: identity,
	}

	if err := s.repo.Create(ctx, card); err != nil {
		if errors.Is(err, repository.ErrMalformedID) {
			return nil, apperror.BadRequest("invalid id")
		}
		s.logger.Error("failed to create card",
			slog.String("owner", identity),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating card: %w", err)
	}

	s.logger.Info("card created",
		slog.String("cardID", card.ID),
		slog.String("owner", identity),
	)

	return card, nil
}

// Delete removes a card and returns the pre-delete record.
//
// The existence check runs before the ownership check: deleting a
// nonexistent card reports NotFound even to a non-owner, never Forbidden.
// Only then is the owner compared against the caller's identity.
func (s *CardService) Delete(ctx context.Context, identity, cardID string) (*model.Card, error) {
	card, err := s.repo.GetByID(ctx, cardID)
	if err != nil {
		return nil, mapLookupError(err, "card", cardID)
	}

	if card.Owner != identity {
		return nil, apperror.Forbidden("you cannot delete another user's card")
	}

	if err := s.repo.Delete(ctx, cardID); err != nil {
		return nil, mapLookupError(err, "card", cardID)
	}

	s.logger.Info("card deleted",
		slog.String("cardID", cardID),
		slog.String("owner", identity),
	)

	return card, nil
}

// Like adds the caller to the card's likes set and returns the updated
// card. Liking a card twice leaves a single entry.
func (s *CardService) Like(ctx context.Context, identity, cardID string) (*model.Card, error) {
	card, err := s.repo.AddLike(ctx, cardID, identity)
	if err != nil {
		return nil, mapLookupError(err, "card", cardID)
	}
	return card, nil
}

// Dislike removes the caller from the card's likes set. Removing an absent
// like is a no-op that still returns the card.
func (s *CardService) Dislike(ctx context.Context, identity, cardID string) (*model.Card, error) {
	card, err := s.repo.RemoveLike(ctx, cardID, identity)
	if err != nil {
		return nil, mapLookupError(err, "card", cardID)
	}
	return card, nil
}
