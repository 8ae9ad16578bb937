// AngelaMos | 2026
// repository.go

package review

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
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*Review, error)
	List(
		ctx context.Context,
		tourID *primitive.ObjectID,
		features *query.Features,
	) ([]Review, error)
	ListForTour(ctx context.Context, tourID primitive.ObjectID) ([]Review, error)
	RatingStats(ctx context.Context, tourID primitive.ObjectID) (*RatingStats, error)
	ExistsForPair(ctx context.Context, tourID, userID primitive.ObjectID) (bool, error)
}

type repository struct {
	collection *mongo.Collection
}

func NewRepository(db *core.Database) Repository {
	return &repository{collection: db.Collection(core.CollectionReviews)}
}

func (r *repository) Create(ctx context.Context, review *Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create review: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id primitive.ObjectID,
) (*Review, error) {
	var review Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &review, nil
}

func (r *repository) Update(
	ctx context.Context,
	id primitive.ObjectID,
	set bson.M,
) (*Review, error) {
	set["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review Review
	err := r.collection.
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	return &review, nil
}

// Delete returns the removed review so the caller knows which tour
// needs its rating stats recomputed.
func (r *repository) Delete(
	ctx context.Context,
	id primitive.ObjectID,
) (*Review, error) {
	var review Review
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("delete review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete review: %w", err)
	}

	return &review, nil
}

func (r *repository) List(
	ctx context.Context,
	tourID *primitive.ObjectID,
	features *query.Features,
) ([]Review, error) {
	filter := features.Filter()
	if tourID != nil {
		filter["tour"] = *tourID
	}

	cursor, err := r.collection.Find(ctx, filter, features.FindOptions())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	return reviews, nil
}

// ListForTour returns every review of a tour, newest first, without
// pagination. The tour detail embeds the full set.
func (r *repository) ListForTour(
	ctx context.Context,
	tourID primitive.ObjectID,
) ([]Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"tour": tourID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tour reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode tour reviews: %w", err)
	}

	return reviews, nil
}

// ExistsForPair reports whether the user already reviewed the tour.
// The unique index on (tour, user) still backstops concurrent inserts.
func (r *repository) ExistsForPair(
	ctx context.Context,
	tourID, userID primitive.ObjectID,
) (bool, error) {
	opts := options.Count().SetLimit(1)
	n, err := r.collection.CountDocuments(
		ctx, bson.M{"tour": tourID, "user": userID}, opts)
	if err != nil {
		return false, fmt.Errorf("review exists: %w", err)
	}

	return n > 0, nil
}

// RatingStats reduces a tour's reviews to their count and average
// rating. Returns nil when the tour has no reviews.
func (r *repository) RatingStats(
	ctx context.Context,
	tourID primitive.ObjectID,
) (*RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$tour",
			"nRating":   bson.M{"$sum": 1},
			"avgRating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("rating stats: %w", err)
	}
	defer cursor.Close(ctx)

	results := []RatingStats{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode rating stats: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	return &results[0], nil
}
