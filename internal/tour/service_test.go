// AngelaMos | 2026
// service_test.go

package tour

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/bookit/internal/auth"
	"github.com/carterperez-dev/bookit/internal/core"
	"github.com/carterperez-dev/bookit/internal/query"
)

type fakeRepo struct {
	tours   map[primitive.ObjectID]*Tour
	lastSet bson.M
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tours: make(map[primitive.ObjectID]*Tour)}
}

func (f *fakeRepo) Create(_ context.Context, t *Tour) error {
	for _, existing := range f.tours {
		if existing.Name == t.Name {
			return core.ErrDuplicateKey
		}
	}
	t.ID = primitive.NewObjectID()
	f.tours[t.ID] = t
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*Tour, error) {
	if t, ok := f.tours[id]; ok {
		return t, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Update(
	_ context.Context,
	id primitive.ObjectID,
	set bson.M,
) (*Tour, error) {
	t, ok := f.tours[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	f.lastSet = set
	if name, ok := set["name"].(string); ok {
		t.Name = name
	}
	if s, ok := set["slug"].(string); ok {
		t.Slug = s
	}
	if price, ok := set["price"].(float64); ok {
		t.Price = price
	}
	return t, nil
}

func (f *fakeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.tours[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.tours, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ *query.Features) ([]Tour, error) {
	out := make([]Tour, 0, len(f.tours))
	for _, t := range f.tours {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeRepo) StatsByDifficulty(_ context.Context) ([]DifficultyStats, error) {
	return nil, nil
}

func (f *fakeRepo) MonthlyPlan(_ context.Context, _ int) ([]MonthlyPlanEntry, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateRatingStats(
	_ context.Context,
	id primitive.ObjectID,
	average float64,
	quantity int,
) error {
	t, ok := f.tours[id]
	if !ok {
		return core.ErrNotFound
	}
	t.RatingsAverage = average
	t.RatingsQuantity = quantity
	return nil
}

type fakeGuides struct {
	guides map[string]*auth.UserInfo
}

func (f *fakeGuides) GetByID(_ context.Context, id string) (*auth.UserInfo, error) {
	if g, ok := f.guides[id]; ok {
		return g, nil
	}
	return nil, core.ErrNotFound
}

func newTestService(repo *fakeRepo, guides *fakeGuides) *Service {
	if guides == nil {
		guides = &fakeGuides{guides: map[string]*auth.UserInfo{}}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, guides, logger)
}

func validCreateRequest() CreateTourRequest {
	return CreateTourRequest{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
}

func TestCreateTourDefaults(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	tour, err := svc.CreateTour(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "the-forest-hiker", tour.Slug)
	assert.Equal(t, 4.5, tour.RatingsAverage)
	assert.Zero(t, tour.RatingsQuantity)
	assert.False(t, tour.SecretTour)
	assert.False(t, tour.ID.IsZero())
}

func TestCreateTourDuplicateName(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	_, err := svc.CreateTour(context.Background(), validCreateRequest())
	require.NoError(t, err)

	_, err = svc.CreateTour(context.Background(), validCreateRequest())
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.StatusCode)
}

func TestUpdateTourRebuildsSlug(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	tour, err := svc.CreateTour(context.Background(), validCreateRequest())
	require.NoError(t, err)

	newName := "The Snow Adventurer"
	updated, err := svc.UpdateTour(context.Background(), tour.ID.Hex(),
		UpdateTourRequest{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "the-snow-adventurer", updated.Slug)
	assert.Equal(t, "the-snow-adventurer", repo.lastSet["slug"])
}

func TestUpdateTourDiscountMustStayBelowPrice(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	tour, err := svc.CreateTour(context.Background(), validCreateRequest())
	require.NoError(t, err)

	price := 200.0
	discount := 250.0
	_, err = svc.UpdateTour(context.Background(), tour.ID.Hex(),
		UpdateTourRequest{Price: &price, PriceDiscount: &discount})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestGetTourInvalidID(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	_, err := svc.GetTour(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMonthlyPlanYearBounds(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	_, err := svc.MonthlyPlan(context.Background(), 1999)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	// Future years have no plan.
	_, err = svc.MonthlyPlan(context.Background(), time.Now().Year()+1)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.MonthlyPlan(context.Background(), time.Now().Year())
	assert.NoError(t, err)
}

func TestPopulateGuidesSkipsMissing(t *testing.T) {
	known := primitive.NewObjectID()
	missing := primitive.NewObjectID()

	guides := &fakeGuides{guides: map[string]*auth.UserInfo{
		known.Hex(): {ID: known.Hex(), Name: "Guide One", Role: "guide"},
	}}
	svc := newTestService(newFakeRepo(), guides)

	tour := &Tour{Guides: []primitive.ObjectID{known, missing}}
	views := svc.PopulateGuides(context.Background(), tour)

	require.Len(t, views, 1)
	assert.Equal(t, "Guide One", views[0].Name)
}
