// AngelaMos | 2026
// dto.go

package tour

import (
	"time"
)

type LocationInput struct {
	Type        string    `json:"type"                  validate:"omitempty,eq=Point"`
	Coordinates []float64 `json:"coordinates"           validate:"required,len=2"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	Day         int       `json:"day,omitempty"         validate:"omitempty,gte=1"`
}

type CreateTourRequest struct {
	Name          string          `json:"name"                    validate:"required,min=8,max=40,alphaspace"`
	Duration      int             `json:"duration"                validate:"required,gte=1"`
	MaxGroupSize  int             `json:"maxGroupSize"            validate:"required,gte=2,lte=40"`
	Difficulty    string          `json:"difficulty"              validate:"required,oneof=easy medium difficult"`
	Price         float64         `json:"price"                   validate:"required,gte=100,lte=1000000"`
	PriceDiscount *float64        `json:"priceDiscount,omitempty" validate:"omitempty,gt=0,ltfield=Price"`
	Summary       string          `json:"summary"                 validate:"required,max=200"`
	Description   string          `json:"description,omitempty"   validate:"omitempty,max=1000"`
	ImageCover    string          `json:"imageCover"              validate:"required"`
	Images        []string        `json:"images,omitempty"`
	StartDates    []time.Time     `json:"startDates,omitempty"`
	SecretTour    *bool           `json:"secretTour,omitempty"`
	StartLocation *LocationInput  `json:"startLocation,omitempty"`
	Locations     []LocationInput `json:"locations,omitempty"     validate:"omitempty,dive"`
	Guides        []string        `json:"guides,omitempty"        validate:"omitempty,dive,hexadecimal,len=24"`
}

// UpdateTourRequest is a partial update, every field optional.
type UpdateTourRequest struct {
	Name          *string         `json:"name,omitempty"          validate:"omitempty,min=8,max=40,alphaspace"`
	Duration      *int            `json:"duration,omitempty"      validate:"omitempty,gte=1"`
	MaxGroupSize  *int            `json:"maxGroupSize,omitempty"  validate:"omitempty,gte=2,lte=40"`
	Difficulty    *string         `json:"difficulty,omitempty"    validate:"omitempty,oneof=easy medium difficult"`
	Price         *float64        `json:"price,omitempty"         validate:"omitempty,gte=100,lte=1000000"`
	PriceDiscount *float64        `json:"priceDiscount,omitempty" validate:"omitempty,gt=0"`
	Summary       *string         `json:"summary,omitempty"       validate:"omitempty,max=200"`
	Description   *string         `json:"description,omitempty"   validate:"omitempty,max=1000"`
	ImageCover    *string         `json:"imageCover,omitempty"`
	Images        []string        `json:"images,omitempty"`
	StartDates    []time.Time     `json:"startDates,omitempty"`
	SecretTour    *bool           `json:"secretTour,omitempty"`
	StartLocation *LocationInput  `json:"startLocation,omitempty"`
	Locations     []LocationInput `json:"locations,omitempty"     validate:"omitempty,dive"`
	Guides        []string        `json:"guides,omitempty"        validate:"omitempty,dive,hexadecimal,len=24"`
}

// GuideView is the populated guide shape embedded in tour responses.
type GuideView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
	Role  string `json:"role"`
}

type TourResponse struct {
	*Tour
	DurationWeeks float64     `json:"durationWeeks"`
	Guides        []GuideView `json:"guides,omitempty"`
	// Reviews is populated on the detail route only.
	Reviews any `json:"reviews,omitempty"`
}

func ToTourResponse(t *Tour, guides []GuideView) TourResponse {
	return TourResponse{
		Tour:          t,
		DurationWeeks: t.DurationWeeks(),
		Guides:        guides,
	}
}
