// AngelaMos | 2026
// handler.go

package user

import (
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/users/profile", h.GetProfile)
		r.Get("/users/me", h.GetProfile)
		r.Patch("/users/profile", h.UpdateProfile)
		r.Delete("/users/deactivate", h.Deactivate)
		r.With(adminOnly).Get("/users/allUsers", h.ListAll)
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := validation.Decode(w, r, &req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	user, err := h.service.UpdateProfile(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Message(w, msgAccountDeactivated)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListAll(r.Context())
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToUserResponseList(users))
}

// RegisterAdminRoutes registers admin-only user management endpoints.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListUsers)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}/role", h.UpdateUserRole)
		r.Put("/{userID}/status", h.UpdateUserStatus)
	})
}

// ListUsers returns a paginated list of users with optional filtering.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListUsersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   q.Get("search"),
		Role:     q.Get("role"),
	}
	if active, err := strconv.ParseBool(q.Get("active")); err == nil {
		params.Active = &active
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

// GetUser returns a specific user by ID.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

// UpdateUserRole changes a user's role.
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	var req UpdateRoleRequest
	if err := validation.Decode(w, r, &req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	user, err := h.service.UpdateRole(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		req,
	)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

// UpdateUserStatus activates or deactivates an account.
func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	var req UpdateStatusRequest
	if err := validation.Decode(w, r, &req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	user, err := h.service.UpdateStatus(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		req,
	)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ValidationError("Invalid user ID")
	}
	return id, nil
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
