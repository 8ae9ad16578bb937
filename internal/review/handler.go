// AngelaMos | 2026
// handler.go

package review

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bookit/internal/core"
	"github.com/carterperez-dev/bookit/internal/middleware"
	"github.com/carterperez-dev/bookit/internal/query"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts both the flat /reviews routes and the nested
// /tours/{tourID}/reviews routes. Every review route requires auth.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	routes := func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListReviews)
		r.With(middleware.RequireRole("user")).Post("/", h.CreateReview)

		r.Get("/{id}", h.GetReview)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("user", "admin"))
			r.Patch("/{id}", h.UpdateReview)
			r.Delete("/{id}", h.DeleteReview)
		})
	}

	r.Route("/reviews", routes)
	r.Route("/tours/{tourID}/reviews", routes)
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(
		r.Context(),
		chi.URLParam(r, "tourID"),
		query.New(r.URL.Query()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		author := h.service.PopulateAuthor(r.Context(), &reviews[i])
		responses = append(responses, ToReviewResponse(&reviews[i], author))
	}

	core.OKList(w, len(responses), responses)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.GetReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	author := h.service.PopulateAuthor(r.Context(), review)
	core.OK(w, ToReviewResponse(review, author))
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	review, err := h.service.CreateReview(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "tourID"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToReviewResponse(review, nil))
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	review, err := h.service.UpdateReview(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "id"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	author := h.service.PopulateAuthor(r.Context(), review)
	core.OK(w, ToReviewResponse(review, author))
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteReview(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
