// AngelaMos | 2026
// handler.go

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kenfackariol/ITCare/internal/core"
	"github.com/kenfackariol/ITCare/internal/middleware"
	"github.com/kenfackariol/ITCare/internal/validation"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the credential endpoints. limiter guards the
// unauthenticated ones and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	limiter func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter)
		}
		r.Post("/users/register", h.Register)
		r.Post("/users/login", h.Login)
	})

	r.With(authenticator).Patch("/users/change-password", h.ChangePassword)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validation.Decode(w, r, &req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validation.Decode(w, r, &req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := validation.Decode(w, r, &req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.ChangePassword(r.Context(), userID, req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Message(w, msgPasswordUpdated)
}
