// AngelaMos | 2026
// handler.go

package user

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Patch("/updateMe", h.UpdateMe)
		r.Delete("/deleteMe", h.DeleteMe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("admin"))
			r.Get("/", h.ListUsers)
			r.Get("/{id}", h.GetUser)
			r.Patch("/{id}", h.AdminUpdateUser)
			r.Delete("/{id}", h.AdminDeleteUser)
		})
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if req.ContainsPassword() {
		core.BadRequest(w, "this route is not for password updates, use /updatePassword")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateMe(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.DeleteMe(r.Context(), userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	features := query.New(r.URL.Query())

	users, err := h.service.ListUsers(r.Context(), features)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKList(w, len(users), ToUserResponseList(users))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req AdminUpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.AdminUpdateUser(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AdminDeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
