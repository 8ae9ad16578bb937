// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/bookit/internal/auth"
	"github.com/carterperez-dev/bookit/internal/core"
	"github.com/carterperez-dev/bookit/internal/middleware"
	"github.com/carterperez-dev/bookit/internal/query"
	"github.com/carterperez-dev/bookit/internal/tour"
)

const (
	// Stats a tour falls back to when its last review is deleted.
	defaultRatingsAverage  = 4.5
	defaultRatingsQuantity = 0

	recomputeTimeout = 10 * time.Second
)

// TourProvider is the slice of the tour layer reviews depend on. The
// tour repository satisfies it.
type TourProvider interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*tour.Tour, error)
	UpdateRatingStats(
		ctx context.Context,
		id primitive.ObjectID,
		average float64,
		quantity int,
	) error
}

// AuthorProvider resolves review authors for responses. The user
// service satisfies it.
type AuthorProvider interface {
	GetByID(ctx context.Context, id string) (*auth.UserInfo, error)
}

type Service struct {
	repo    Repository
	tours   TourProvider
	authors AuthorProvider
	logger  *slog.Logger

	// wg tracks in-flight stat recomputations so tests and shutdown
	// can wait for them.
	wg sync.WaitGroup
}

func NewService(
	repo Repository,
	tours TourProvider,
	authors AuthorProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		tours:   tours,
		authors: authors,
		logger:  logger.With("component", "review"),
	}
}

func parseID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf(
			"invalid %s id %q: %w", kind, id, core.ErrNotFound)
	}
	return oid, nil
}

// CreateReview writes the review and kicks off an asynchronous rating
// recomputation for the tour. tourID comes from the nested route when
// present, otherwise from the request body.
func (s *Service) CreateReview(
	ctx context.Context,
	userID string,
	tourID string,
	req CreateReviewRequest,
) (*Review, error) {
	if tourID == "" {
		tourID = req.Tour
	}
	if tourID == "" {
		return nil, core.ValidationError("tour is required")
	}

	tourOID, err := parseID("tour", tourID)
	if err != nil {
		return nil, err
	}
	userOID, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.tours.GetByID(ctx, tourOID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForPair(ctx, tourOID, userOID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.ConflictError("you have already reviewed this tour")
	}

	rating := req.Rating
	if rating == 0 {
		rating = defaultRatingsAverage
	}

	review := &Review{
		Review: req.Review,
		Rating: rating,
		Tour:   tourOID,
		User:   userOID,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, core.ConflictError("you have already reviewed this tour")
		}
		return nil, err
	}

	s.recomputeStatsAsync(tourOID)
	return review, nil
}

func (s *Service) GetReview(ctx context.Context, id string) (*Review, error) {
	oid, err := parseID("review", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, oid)
}

func (s *Service) UpdateReview(
	ctx context.Context,
	identity *middleware.Identity,
	id string,
	req UpdateReviewRequest,
) (*Review, error) {
	oid, err := parseID("review", id)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := authorizeWrite(identity, existing); err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Review != nil {
		set["review"] = *req.Review
	}
	if req.Rating != nil {
		set["rating"] = *req.Rating
	}

	if len(set) == 0 {
		return existing, nil
	}

	updated, err := s.repo.Update(ctx, oid, set)
	if err != nil {
		return nil, err
	}

	// Every write recomputes; the aggregation is idempotent so a
	// text-only edit just confirms the current stats.
	s.recomputeStatsAsync(updated.Tour)
	return updated, nil
}

func (s *Service) DeleteReview(
	ctx context.Context,
	identity *middleware.Identity,
	id string,
) error {
	oid, err := parseID("review", id)
	if err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return err
	}
	if err := authorizeWrite(identity, existing); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, oid)
	if err != nil {
		return err
	}

	s.recomputeStatsAsync(deleted.Tour)
	return nil
}

// ListReviews returns reviews, scoped to one tour when tourID is set.
func (s *Service) ListReviews(
	ctx context.Context,
	tourID string,
	features *query.Features,
) ([]Review, error) {
	var scope *primitive.ObjectID
	if tourID != "" {
		oid, err := parseID("tour", tourID)
		if err != nil {
			return nil, err
		}
		scope = &oid
	}

	return s.repo.List(ctx, scope, features)
}

// ReviewsForTour returns a tour's reviews with authors populated, in
// the shape the tour detail response embeds. Satisfies
// tour.ReviewLister.
func (s *Service) ReviewsForTour(
	ctx context.Context,
	tourID string,
) (any, error) {
	oid, err := parseID("tour", tourID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.ListForTour(ctx, oid)
	if err != nil {
		return nil, err
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out,
			ToReviewResponse(&reviews[i], s.PopulateAuthor(ctx, &reviews[i])))
	}

	return out, nil
}

// PopulateAuthor resolves the review author. A vanished account yields
// a nil view rather than an error.
func (s *Service) PopulateAuthor(ctx context.Context, r *Review) *AuthorView {
	info, err := s.authors.GetByID(ctx, r.User.Hex())
	if err != nil {
		if !core.IsNotFound(err) {
			s.logger.Warn("author lookup failed",
				"review", r.ID.Hex(), "user", r.User.Hex(), "error", err)
		}
		return nil
	}

	return &AuthorView{ID: info.ID, Name: info.Name, Photo: info.Photo}
}

// Wait blocks until pending rating recomputations finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// authorizeWrite allows the review's author and admins through.
func authorizeWrite(identity *middleware.Identity, r *Review) error {
	if identity == nil {
		return core.UnauthorizedError("please login first")
	}
	if identity.Role == "admin" || identity.ID == r.User.Hex() {
		return nil
	}
	return core.ForbiddenError("you can only modify your own reviews")
}

// recomputeStatsAsync re-aggregates the tour's reviews outside the
// request path. The request context is deliberately not used so an
// early client disconnect cannot leave stale stats.
func (s *Service) recomputeStatsAsync(tourID primitive.ObjectID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
		defer cancel()

		if err := s.recomputeStats(ctx, tourID); err != nil {
			s.logger.Error("rating stats recompute failed",
				"tour", tourID.Hex(), "error", err)
		}
	}()
}

func (s *Service) recomputeStats(
	ctx context.Context,
	tourID primitive.ObjectID,
) error {
	stats, err := s.repo.RatingStats(ctx, tourID)
	if err != nil {
		return err
	}

	average := defaultRatingsAverage
	quantity := defaultRatingsQuantity
	if stats != nil {
		average = stats.Average
		quantity = stats.Quantity
	}

	return s.tours.UpdateRatingStats(ctx, tourID, average, quantity)
}
