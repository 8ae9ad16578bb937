// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bookit/internal/core"
	"github.com/carterperez-dev/bookit/internal/middleware"
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

// RegisterRoutes mounts the credential endpoints. They live under
// /users alongside the account routes, matching the public API shape.
func (h *Handler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Post("/users/signup", h.Signup)
	r.Post("/users/login", h.Login)
	r.Post("/users/forgetPassword", h.ForgotPassword)
	r.Patch("/users/resetPassword/{token}", h.ResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Patch("/users/updatePassword", h.UpdatePassword)
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	http.SetCookie(w, h.service.NewSessionCookie(resp.Token))
	core.Created(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	http.SetCookie(w, h.service.NewSessionCookie(resp.Token))
	core.OK(w, resp)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "token sent to email")
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		core.BadRequest(w, "reset token is required")
		return
	}

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.ResetPassword(r.Context(), token, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	http.SetCookie(w, h.service.NewSessionCookie(resp.Token))
	core.OK(w, resp)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "please login first")
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.UpdatePassword(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	http.SetCookie(w, h.service.NewSessionCookie(resp.Token))
	core.OK(w, resp)
}
