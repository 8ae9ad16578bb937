// AngelaMos | 2026
// dto.go

package review

import (
	"time"
)

type CreateReviewRequest struct {
	Review string  `json:"review" validate:"required"`
	Rating float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
	// Tour may come from the body on the flat route; the nested route
	// overrides it with the path parameter.
	Tour string `json:"tour,omitempty" validate:"omitempty,hexadecimal,len=24"`
}

type UpdateReviewRequest struct {
	Review *string  `json:"review,omitempty"`
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// AuthorView is the populated review author.
type AuthorView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

type ReviewResponse struct {
	ID        string      `json:"id"`
	Review    string      `json:"review"`
	Rating    float64     `json:"rating"`
	Tour      string      `json:"tour"`
	User      *AuthorView `json:"user,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

func ToReviewResponse(r *Review, author *AuthorView) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID.Hex(),
		Review:    r.Review,
		Rating:    r.Rating,
		Tour:      r.Tour.Hex(),
		User:      author,
		CreatedAt: r.CreatedAt,
	}
}
