// AngelaMos | 2026
// entity.go

package tour

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Location is a GeoJSON point embedded in a tour document.
type Location struct {
	Type        string    `bson:"type"                  json:"type"`
	Coordinates []float64 `bson:"coordinates"           json:"coordinates"`
	Address     string    `bson:"address,omitempty"     json:"address,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Day         int       `bson:"day,omitempty"         json:"day,omitempty"`
}

// Tour is the persisted tour document. Secret tours are excluded from
// every public read through the repository's default scope.
type Tour struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"           json:"id"`
	Name            string               `bson:"name"                    json:"name"`
	Slug            string               `bson:"slug"                    json:"slug"`
	Duration        int                  `bson:"duration"                json:"duration"`
	MaxGroupSize    int                  `bson:"maxGroupSize"            json:"maxGroupSize"`
	Difficulty      string               `bson:"difficulty"              json:"difficulty"`
	RatingsAverage  float64              `bson:"ratingsAverage"          json:"ratingsAverage"`
	RatingsQuantity int                  `bson:"ratingsQuantity"         json:"ratingsQuantity"`
	Price           float64              `bson:"price"                   json:"price"`
	PriceDiscount   *float64             `bson:"priceDiscount,omitempty" json:"priceDiscount,omitempty"`
	Summary         string               `bson:"summary"                 json:"summary"`
	Description     string               `bson:"description,omitempty"   json:"description,omitempty"`
	ImageCover      string               `bson:"imageCover"              json:"imageCover"`
	Images          []string             `bson:"images,omitempty"        json:"images,omitempty"`
	StartDates      []time.Time          `bson:"startDates,omitempty"    json:"startDates,omitempty"`
	SecretTour      bool                 `bson:"secretTour"              json:"-"`
	StartLocation   *Location            `bson:"startLocation,omitempty" json:"startLocation,omitempty"`
	Locations       []Location           `bson:"locations,omitempty"     json:"locations,omitempty"`
	Guides          []primitive.ObjectID `bson:"guides,omitempty"        json:"-"`
	CreatedAt       time.Time            `bson:"createdAt"               json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"               json:"-"`
}

// DurationWeeks is a derived convenience value, never stored.
func (t *Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}

func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyDifficult:
		return true
	}
	return false
}

// DifficultyStats is one row of the per-difficulty aggregation report.
type DifficultyStats struct {
	Difficulty string  `bson:"_id"        json:"difficulty"`
	NumTours   int     `bson:"numTours"   json:"numTours"`
	NumRatings int     `bson:"numRating"  json:"numRatings"`
	AvgRating  float64 `bson:"avgRating"  json:"avgRating"`
	AvgPrice   float64 `bson:"avgPrice"   json:"avgPrice"`
	MinPrice   float64 `bson:"minPrice"   json:"minPrice"`
	MaxPrice   float64 `bson:"maxPrice"   json:"maxPrice"`
}

// MonthlyPlanEntry counts tour starts in one month of a year.
type MonthlyPlanEntry struct {
	Month         int      `bson:"month"         json:"month"`
	NumTourStarts int      `bson:"numTourStarts" json:"numTourStarts"`
	Tours         []string `bson:"tours"         json:"tours"`
}
