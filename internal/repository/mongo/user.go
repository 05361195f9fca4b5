package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/mesto-api/internal/model"
	"github.com/sakif/mesto-api/internal/repository"
)

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore persists users in the "users" collection.
type UserStore struct {
	col *mongo.Collection
}

// userDoc is the persisted shape of a user.
type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Name     string             `bson:"name"`
	About    string             `bson:"about"`
	Avatar   string             `bson:"avatar"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Name:         d.Name,
		About:        d.About,
		Avatar:       d.Avatar,
	}
}

// Create inserts a new user and fills in the generated id.
// A unique-index violation on email comes back as ErrDuplicateKey.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	doc := userDoc{
		Email:    user.Email,
		Password: user.PasswordHash,
		Name:     user.Name,
		About:    user.About,
		Avatar:   user.Avatar,
	}

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: email %s", repository.ErrDuplicateKey, user.Email)
		}
		return fmt.Errorf("mongo: inserting user: %w", err)
	}

	user.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// GetByID retrieves a user by its hex id.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: getting user %s: %w", id, err)
	}

	return doc.toModel(), nil
}

// GetByEmail retrieves a user by email, hash included. Credential checks
// only — the result must not be serialized to a response as-is.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var doc userDoc
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: getting user by email: %w", err)
	}

	return doc.toModel(), nil
}

// List returns every user.
func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo: listing users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding users: %w", err)
	}

	users := make([]model.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toModel())
	}
	return users, nil
}

// UpdateProfile sets name and about on the user's own record and returns
// the updated document. ErrNotFound if the record vanished concurrently.
func (s *UserStore) UpdateProfile(ctx context.Context, id, name, about string) (*model.User, error) {
	return s.updateUser(ctx, id, bson.M{"name": name, "about": about})
}

// UpdateAvatar sets the avatar URL on the user's own record.
func (s *UserStore) UpdateAvatar(ctx context.Context, id, avatar string) (*model.User, error) {
	return s.updateUser(ctx, id, bson.M{"avatar": avatar})
}

func (s *UserStore) updateUser(ctx context.Context, id string, fields bson.M) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDoc
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: updating user %s: %w", id, err)
	}

	return doc.toModel(), nil
}
