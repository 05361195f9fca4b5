package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/mesto-api/internal/model"
	"github.com/sakif/mesto-api/internal/repository"
)

// compile-time check that *CardStore implements repository.CardRepository
var _ repository.CardRepository = (*CardStore)(nil)

// CardStore persists cards in the "cards" collection.
type CardStore struct {
	col *mongo.Collection
}

// cardDoc is the persisted shape of a card. Likes are stored as ObjectIDs
// so the set operators compare by value, not by string formatting.
type cardDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Link      string               `bson:"link"`
	Owner     primitive.ObjectID   `bson:"owner"`
	Likes     []primitive.ObjectID `bson:"likes"`
	CreatedAt time.Time            `bson:"created_at"`
}

func (d *cardDoc) toModel() *model.Card {
	likes := make([]string, 0, len(d.Likes))
	for _, l := range d.Likes {
		likes = append(likes, l.Hex())
	}
	return &model.Card{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Link:      d.Link,
		Owner:     d.Owner.Hex(),
		Likes:     likes,
		CreatedAt: d.CreatedAt,
	}
}

// Create inserts a new card with an empty likes set and fills in the
// generated id and creation time.
func (s *CardStore) Create(ctx context.Context, card *model.Card) error {
	owner, err := parseID(card.Owner)
	if err != nil {
		return err
	}

	doc := cardDoc{
		Name:      card.Name,
		Link:      card.Link,
		Owner:     owner,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("mongo: inserting card: %w", err)
	}

	card.ID = res.InsertedID.(primitive.ObjectID).Hex()
	card.Likes = []string{}
	card.CreatedAt = doc.CreatedAt
	return nil
}

// GetByID retrieves a card by its hex id.
func (s *CardStore) GetByID(ctx context.Context, id string) (*model.Card, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc cardDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: getting card %s: %w", id, err)
	}

	return doc.toModel(), nil
}

// List returns every card, newest first.
func (s *CardStore) List(ctx context.Context) ([]model.Card, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing cards: %w", err)
	}
	defer cur.Close(ctx)

	var docs []cardDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding cards: %w", err)
	}

	cards := make([]model.Card, 0, len(docs))
	for i := range docs {
		cards = append(cards, *docs[i].toModel())
	}
	return cards, nil
}

// Delete removes a card by its hex id.
func (s *CardStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo: deleting card %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddLike adds the user to the card's likes set via $addToSet. The update
// is a single atomic document operation, so concurrent likes never lose
// entries, and liking twice leaves exactly one.
func (s *CardStore) AddLike(ctx context.Context, cardID, userID string) (*model.Card, error) {
	return s.updateLikes(ctx, cardID, userID, "$addToSet")
}

// RemoveLike removes the user from the card's likes set via $pull.
// Removing an absent like is a no-op that still returns the card.
func (s *CardStore) RemoveLike(ctx context.Context, cardID, userID string) (*model.Card, error) {
	return s.updateLikes(ctx, cardID, userID, "$pull")
}

func (s *CardStore) updateLikes(ctx context.Context, cardID, userID, op string) (*model.Card, error) {
	oid, err := parseID(cardID)
	if err != nil {
		return nil, err
	}
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc cardDoc
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{op: bson.M{"likes": uid}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: updating likes on card %s: %w", cardID, err)
	}

	return doc.toModel(), nil
}
