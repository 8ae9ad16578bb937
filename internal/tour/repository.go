// AngelaMos | 2026
// repository.go

package tour

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
	Create(ctx context.Context, tour *Tour) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Tour, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*Tour, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, features *query.Features) ([]Tour, error)
	StatsByDifficulty(ctx context.Context) ([]DifficultyStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanEntry, error)
	UpdateRatingStats(
		ctx context.Context,
		id primitive.ObjectID,
		average float64,
		quantity int,
	) error
}

// publicScope hides secret tours from every scoped read. Request
// filters cannot lift it; query.Scope applies it last.
func publicScope() bson.M {
	return bson.M{"secretTour": bson.M{"$ne": true}}
}

type repository struct {
	collection *mongo.Collection
}

func NewRepository(db *core.Database) Repository {
	return &repository{collection: db.Collection(core.CollectionTours)}
}

func (r *repository) Create(ctx context.Context, tour *Tour) error {
	now := time.Now()
	tour.CreatedAt = now
	tour.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, tour)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create tour: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create tour: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tour.ID = oid
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id primitive.ObjectID,
) (*Tour, error) {
	filter := query.Scope(publicScope(), bson.M{"_id": id})

	var tour Tour
	err := r.collection.FindOne(ctx, filter).Decode(&tour)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get tour: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tour: %w", err)
	}

	return &tour, nil
}

func (r *repository) Update(
	ctx context.Context,
	id primitive.ObjectID,
	set bson.M,
) (*Tour, error) {
	set["updatedAt"] = time.Now()

	filter := query.Scope(publicScope(), bson.M{"_id": id})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tour Tour
	err := r.collection.
		FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).
		Decode(&tour)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update tour: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("update tour: %w", core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("update tour: %w", err)
	}

	return &tour, nil
}

func (r *repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete tour: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("delete tour: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	features *query.Features,
) ([]Tour, error) {
	filter := query.Scope(publicScope(), features.Filter())

	cursor, err := r.collection.Find(ctx, filter, features.FindOptions())
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	defer cursor.Close(ctx)

	tours := []Tour{}
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, fmt.Errorf("decode tours: %w", err)
	}

	return tours, nil
}

// statsPipeline groups rating and price figures per difficulty over
// all public tours, busiest difficulty first. Every tour counts; no
// rating threshold filters the report.
func statsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: publicScope()}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$difficulty",
			"numTours":  bson.M{"$sum": 1},
			"numRating": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating": bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":  bson.M{"$avg": "$price"},
			"minPrice":  bson.M{"$min": "$price"},
			"maxPrice":  bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"numTours": -1}}},
	}
}

func (r *repository) StatsByDifficulty(
	ctx context.Context,
) ([]DifficultyStats, error) {
	cursor, err := r.collection.Aggregate(ctx, statsPipeline())
	if err != nil {
		return nil, fmt.Errorf("tour stats: %w", err)
	}
	defer cursor.Close(ctx)

	stats := []DifficultyStats{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode tour stats: %w", err)
	}

	return stats, nil
}

// monthlyPlanPipeline unwinds start dates and counts tour starts per
// month of the given year, in month order.
func monthlyPlanPipeline(year int) mongo.Pipeline {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	return mongo.Pipeline{
		{{Key: "$match", Value: publicScope()}},
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: bson.M{
			"startDates": bson.M{"$gte": yearStart, "$lte": yearEnd},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"month": 1}}},
	}
}

func (r *repository) MonthlyPlan(
	ctx context.Context,
	year int,
) ([]MonthlyPlanEntry, error) {
	cursor, err := r.collection.Aggregate(ctx, monthlyPlanPipeline(year))
	if err != nil {
		return nil, fmt.Errorf("monthly plan: %w", err)
	}
	defer cursor.Close(ctx)

	plan := []MonthlyPlanEntry{}
	if err := cursor.All(ctx, &plan); err != nil {
		return nil, fmt.Errorf("decode monthly plan: %w", err)
	}

	return plan, nil
}

// UpdateRatingStats installs recomputed review figures. Secret tours
// keep their stats current too, so no scope here.
func (r *repository) UpdateRatingStats(
	ctx context.Context,
	id primitive.ObjectID,
	average float64,
	quantity int,
) error {
	update := bson.M{"$set": bson.M{
		"ratingsAverage":  average,
		"ratingsQuantity": quantity,
		"updatedAt":       time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update rating stats: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("update rating stats: %w", core.ErrNotFound)
	}

	return nil
}
