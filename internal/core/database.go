// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/carterperez-dev/bookit/internal/config"
)

const (
	CollectionUsers   = "users"
	CollectionTours   = "tours"
	CollectionReviews = "reviews"
)

type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func NewDatabase(
	ctx context.Context,
	cfg config.MongoConfig,
) (*Database, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		//nolint:errcheck // cleanup on connection failure
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := &Database{
		Client: client,
		DB:     client.Database(cfg.Database),
	}

	if err := db.ensureIndexes(ctx); err != nil {
		//nolint:errcheck // cleanup on bootstrap failure
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return db, nil
}

func (d *Database) Collection(name string) *mongo.Collection {
	return d.DB.Collection(name)
}

func (d *Database) Close(ctx context.Context) error {
	if d.Client != nil {
		return d.Client.Disconnect(ctx)
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.Client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}

	return nil
}

// ensureIndexes creates the schema-level constraints the application
// relies on: unique emails, unique tour names and slugs, the
// one-review-per-(user,tour) rule and the hot listing sort.
func (d *Database) ensureIndexes(ctx context.Context) error {
	idxCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		CollectionTours: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}}},
		},
		CollectionReviews: {
			{
				Keys:    bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := d.DB.Collection(collection).Indexes().CreateMany(idxCtx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", collection, err)
		}
	}

	return nil
}

// IsDuplicateKeyError reports whether a write failed on a unique
// index, either as a raw driver error or already wrapped by a
// repository.
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err) || errors.Is(err, ErrDuplicateKey)
}
