// AngelaMos | 2026
// entity.go

package review

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one rating of a tour by a user. The unique index on the
// (tour, user) pair guarantees one review per user per tour.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Review    string             `bson:"review"        json:"review"`
	Rating    float64            `bson:"rating"        json:"rating"`
	Tour      primitive.ObjectID `bson:"tour"          json:"tour"`
	User      primitive.ObjectID `bson:"user"          json:"user"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"-"`
}

// RatingStats is the aggregate a tour's review set reduces to.
type RatingStats struct {
	Average  float64 `bson:"avgRating"`
	Quantity int     `bson:"nRating"`
}
