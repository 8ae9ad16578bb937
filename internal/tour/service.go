// AngelaMos | 2026
// service.go

package tour

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/bookit/internal/auth"
	"github.com/carterperez-dev/bookit/internal/core"
	"github.com/carterperez-dev/bookit/internal/query"
)

const (
	defaultRatingsAverage = 4.5
	minPlanYear           = 2000
)

// GuideProvider resolves guide accounts for tour responses. The user
// service satisfies it.
type GuideProvider interface {
	GetByID(ctx context.Context, id string) (*auth.UserInfo, error)
}

type Service struct {
	repo   Repository
	guides GuideProvider
	logger *slog.Logger
}

func NewService(repo Repository, guides GuideProvider, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		guides: guides,
		logger: logger.With("component", "tour"),
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf(
			"invalid tour id %q: %w", id, core.ErrNotFound)
	}
	return oid, nil
}

func parseGuideIDs(ids []string) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, core.ValidationError(
				fmt.Sprintf("invalid guide id %q", id))
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

func toLocation(in *LocationInput) *Location {
	if in == nil {
		return nil
	}
	loc := Location{
		Type:        in.Type,
		Coordinates: in.Coordinates,
		Address:     in.Address,
		Description: in.Description,
		Day:         in.Day,
	}
	if loc.Type == "" {
		loc.Type = "Point"
	}
	return &loc
}

func toLocations(in []LocationInput) []Location {
	if len(in) == 0 {
		return nil
	}
	out := make([]Location, 0, len(in))
	for i := range in {
		out = append(out, *toLocation(&in[i]))
	}
	return out
}

func (s *Service) CreateTour(
	ctx context.Context,
	req CreateTourRequest,
) (*Tour, error) {
	guideIDs, err := parseGuideIDs(req.Guides)
	if err != nil {
		return nil, err
	}

	tour := &Tour{
		Name:            req.Name,
		Slug:            slug.Make(req.Name),
		Duration:        req.Duration,
		MaxGroupSize:    req.MaxGroupSize,
		Difficulty:      req.Difficulty,
		RatingsAverage:  defaultRatingsAverage,
		RatingsQuantity: 0,
		Price:           req.Price,
		PriceDiscount:   req.PriceDiscount,
		Summary:         req.Summary,
		Description:     req.Description,
		ImageCover:      req.ImageCover,
		Images:          req.Images,
		StartDates:      req.StartDates,
		StartLocation:   toLocation(req.StartLocation),
		Locations:       toLocations(req.Locations),
		Guides:          guideIDs,
	}
	if req.SecretTour != nil {
		tour.SecretTour = *req.SecretTour
	}

	if err := s.repo.Create(ctx, tour); err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, core.ConflictError("a tour with this name already exists")
		}
		return nil, err
	}

	return tour, nil
}

func (s *Service) GetTour(ctx context.Context, id string) (*Tour, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, oid)
}

func (s *Service) UpdateTour(
	ctx context.Context,
	id string,
	req UpdateTourRequest,
) (*Tour, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
		set["slug"] = slug.Make(*req.Name)
	}
	if req.Duration != nil {
		set["duration"] = *req.Duration
	}
	if req.MaxGroupSize != nil {
		set["maxGroupSize"] = *req.MaxGroupSize
	}
	if req.Difficulty != nil {
		set["difficulty"] = *req.Difficulty
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.PriceDiscount != nil {
		if req.Price != nil && *req.PriceDiscount >= *req.Price {
			return nil, core.ValidationError(
				"priceDiscount must be below the regular price")
		}
		set["priceDiscount"] = *req.PriceDiscount
	}
	if req.Summary != nil {
		set["summary"] = *req.Summary
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.ImageCover != nil {
		set["imageCover"] = *req.ImageCover
	}
	if req.Images != nil {
		set["images"] = req.Images
	}
	if req.StartDates != nil {
		set["startDates"] = req.StartDates
	}
	if req.SecretTour != nil {
		set["secretTour"] = *req.SecretTour
	}
	if req.StartLocation != nil {
		set["startLocation"] = toLocation(req.StartLocation)
	}
	if req.Locations != nil {
		set["locations"] = toLocations(req.Locations)
	}
	if req.Guides != nil {
		guideIDs, err := parseGuideIDs(req.Guides)
		if err != nil {
			return nil, err
		}
		set["guides"] = guideIDs
	}

	if len(set) == 0 {
		return s.repo.GetByID(ctx, oid)
	}

	tour, err := s.repo.Update(ctx, oid, set)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, core.ConflictError("a tour with this name already exists")
		}
		return nil, err
	}

	return tour, nil
}

func (s *Service) DeleteTour(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, oid)
}

func (s *Service) ListTours(
	ctx context.Context,
	features *query.Features,
) ([]Tour, error) {
	return s.repo.List(ctx, features)
}

func (s *Service) Stats(ctx context.Context) ([]DifficultyStats, error) {
	return s.repo.StatsByDifficulty(ctx)
}

func (s *Service) MonthlyPlan(
	ctx context.Context,
	year int,
) ([]MonthlyPlanEntry, error) {
	// Only current or past years have a meaningful plan.
	currentYear := time.Now().Year()
	if year < minPlanYear || year > currentYear {
		return nil, core.ValidationError(
			fmt.Sprintf("year must be between %d and %d", minPlanYear, currentYear))
	}
	return s.repo.MonthlyPlan(ctx, year)
}

// PopulateGuides resolves a tour's guide references into embeddable
// views. Missing accounts are skipped rather than failing the read.
func (s *Service) PopulateGuides(ctx context.Context, t *Tour) []GuideView {
	if len(t.Guides) == 0 {
		return nil
	}

	views := make([]GuideView, 0, len(t.Guides))
	for _, oid := range t.Guides {
		info, err := s.guides.GetByID(ctx, oid.Hex())
		if err != nil {
			if !core.IsNotFound(err) {
				s.logger.Warn("guide lookup failed",
					"tour", t.ID.Hex(), "guide", oid.Hex(), "error", err)
			}
			continue
		}
		views = append(views, GuideView{
			ID:    info.ID,
			Name:  info.Name,
			Email: info.Email,
			Photo: info.Photo,
			Role:  info.Role,
		})
	}

	return views
}
