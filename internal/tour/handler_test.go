// AngelaMos | 2026
// handler_test.go

package tour

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReviewLister struct {
	lastTourID string
	reviews    any
}

func (s *stubReviewLister) ReviewsForTour(
	_ context.Context,
	tourID string,
) (any, error) {
	s.lastTourID = tourID
	return s.reviews, nil
}

func passthrough(next http.Handler) http.Handler { return next }

func TestGetTourEmbedsReviews(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	created, err := svc.CreateTour(context.Background(), validCreateRequest())
	require.NoError(t, err)

	lister := &stubReviewLister{reviews: []map[string]string{
		{"review": "Loved it"},
	}}
	handler := NewHandler(svc, lister)

	router := chi.NewRouter()
	handler.RegisterRoutes(router, passthrough)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tours/"+created.ID.Hex(), nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID.Hex(), lister.lastTourID)
	assert.Contains(t, rec.Body.String(), `"reviews"`)
	assert.Contains(t, rec.Body.String(), "Loved it")
}

func TestAliasPresets(t *testing.T) {
	t.Parallel()

	cheap := aliasParams(url.Values{},
		"price,-duration",
		"name,price,duration,difficulty,summary")
	assert.Equal(t, "5", cheap.Get("limit"))
	assert.Equal(t, "price,-duration", cheap.Get("sort"))
	assert.Equal(t, "name,price,duration,difficulty,summary", cheap.Get("fields"))

	// Presets win over caller-supplied parameters.
	rigged := aliasParams(url.Values{"limit": {"500"}, "sort": {"-price"}},
		"-ratingsAverage,price",
		"name,price,duration,difficulty,summary,ratingsAverage,ratingsQuantity")
	assert.Equal(t, "5", rigged.Get("limit"))
	assert.Equal(t, "-ratingsAverage,price", rigged.Get("sort"))
}
