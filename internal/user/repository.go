// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carterperez-dev/bookit/internal/core"
	"github.com/carterperez-dev/bookit/internal/query"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*User, error)
	UpdatePassword(
		ctx context.Context,
		id primitive.ObjectID,
		passwordHash string,
		changedAt time.Time,
	) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, features *query.Features) ([]User, error)
}

// activeScope is the explicit default scope for account reads:
// deactivated accounts are invisible, and request filters cannot
// make them visible again.
func activeScope() bson.M {
	return bson.M{"active": bson.M{"$ne": false}}
}

type repository struct {
	collection *mongo.Collection
}

func NewRepository(db *core.Database) Repository {
	return &repository{collection: db.Collection(core.CollectionUsers)}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id primitive.ObjectID,
) (*User, error) {
	filter := query.Scope(activeScope(), bson.M{"_id": id})

	var user User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	filter := query.Scope(activeScope(), bson.M{"email": email})

	var user User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(
	ctx context.Context,
	id primitive.ObjectID,
	set bson.M,
) (*User, error) {
	set["updatedAt"] = time.Now()

	filter := query.Scope(activeScope(), bson.M{"_id": id})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user User
	err := r.collection.
		FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).
		Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id primitive.ObjectID,
	passwordHash string,
	changedAt time.Time,
) error {
	filter := query.Scope(activeScope(), bson.M{"_id": id})
	update := bson.M{"$set": bson.M{
		"password":          passwordHash,
		"passwordChangedAt": changedAt,
		"updatedAt":         time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Deactivate(
	ctx context.Context,
	id primitive.ObjectID,
) error {
	filter := query.Scope(activeScope(), bson.M{"_id": id})
	update := bson.M{"$set": bson.M{
		"active":    false,
		"updatedAt": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("deactivate user: %w", core.ErrNotFound)
	}

	return nil
}

// Delete removes the document entirely. Admin-only; soft deletion is
// Deactivate. The active scope is deliberately not applied so admins
// can purge deactivated accounts too.
func (r *repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	features *query.Features,
) ([]User, error) {
	filter := query.Scope(activeScope(), features.Filter())
	opts := features.FindOptions()
	opts.SetProjection(maskCredentialFields(features.Projection()))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return users, nil
}

// maskCredentialFields keeps the password hash out of listings no
// matter what field selection the request asked for. Inclusion and
// exclusion cannot be mixed in one projection, so the shape is
// detected first.
func maskCredentialFields(projection bson.M) bson.M {
	inclusion := false
	for field, mode := range projection {
		if field == "_id" {
			continue
		}
		if included, ok := mode.(int); ok && included == 1 {
			inclusion = true
		}
	}

	if inclusion {
		delete(projection, "password")
		return projection
	}

	projection["password"] = 0
	return projection
}
