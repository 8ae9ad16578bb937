// AngelaMos | 2026
// handler.go

package tour

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bookit/internal/core"
	"github.com/carterperez-dev/bookit/internal/middleware"
	"github.com/carterperez-dev/bookit/internal/query"
)

// ReviewLister supplies a tour's reviews for the detail response. The
// review service satisfies it; the indirection keeps this package
// from importing the review package back.
type ReviewLister interface {
	ReviewsForTour(ctx context.Context, tourID string) (any, error)
}

type Handler struct {
	service   *Service
	reviews   ReviewLister
	validator *validator.Validate
}

func NewHandler(service *Service, reviews ReviewLister) *Handler {
	return &Handler{
		service:   service,
		reviews:   reviews,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/tours", func(r chi.Router) {
		r.Get("/", h.ListTours)
		r.Get("/top-5-cheap", h.TopCheap)
		r.Get("/top-5-rating", h.TopRated)
		r.Get("/{id}", h.GetTour)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.With(middleware.RequireRole("admin")).
				Get("/stats", h.Stats)
			r.With(middleware.RequireRole("admin")).
				Get("/monthly-plan/{year}", h.MonthlyPlan)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin", "guide"))
				r.Post("/", h.CreateTour)
				r.Patch("/{id}", h.UpdateTour)
				r.Delete("/{id}", h.DeleteTour)
			})
		})
	})
}

func (h *Handler) ListTours(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, r.URL.Query())
}

// TopCheap is a preset listing: the five cheapest tours, shortest
// last among equals, trimmed to the browsing fields.
func (h *Handler) TopCheap(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, aliasParams(r.URL.Query(),
		"price,-duration",
		"name,price,duration,difficulty,summary"))
}

// TopRated is a preset listing: the five best rated tours, cheapest
// first among equals.
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, aliasParams(r.URL.Query(),
		"-ratingsAverage,price",
		"name,price,duration,difficulty,summary,ratingsAverage,ratingsQuantity"))
}

func aliasParams(values url.Values, sort, fields string) url.Values {
	values.Set("limit", "5")
	values.Set("sort", sort)
	values.Set("fields", fields)
	return values
}

func (h *Handler) listWith(
	w http.ResponseWriter,
	r *http.Request,
	values url.Values,
) {
	tours, err := h.service.ListTours(r.Context(), query.New(values))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	responses := make([]TourResponse, 0, len(tours))
	for i := range tours {
		responses = append(responses, ToTourResponse(&tours[i], nil))
	}

	core.OKList(w, len(responses), responses)
}

// GetTour returns one tour with its guides and reviews populated.
func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.service.GetTour(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	reviews, err := h.reviews.ReviewsForTour(r.Context(), tour.ID.Hex())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	resp := ToTourResponse(tour, h.service.PopulateGuides(r.Context(), tour))
	resp.Reviews = reviews
	core.OK(w, resp)
}

func (h *Handler) CreateTour(w http.ResponseWriter, r *http.Request) {
	var req CreateTourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	tour, err := h.service.CreateTour(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToTourResponse(tour, nil))
}

func (h *Handler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	var req UpdateTourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	tour, err := h.service.UpdateTour(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToTourResponse(tour, nil))
}

func (h *Handler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTour(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) MonthlyPlan(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		core.BadRequest(w, "year must be a number")
		return
	}

	plan, err := h.service.MonthlyPlan(r.Context(), year)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, plan)
}
