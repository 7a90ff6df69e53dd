// AngelaMos | 2026
// handler.go

package breakdown

import (
	"net/http"
	"net/url"
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

// RegisterRoutes mounts the breakdown endpoints. Listing everything is
// admin only; editing and deleting is open to admins and managers.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly, maintainers func(http.Handler) http.Handler,
) {
	r.Route("/breakdowns", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.With(adminOnly).Get("/", h.List)

		r.Get("/date-range/{start}/{end}", h.ListByDateRange)
		r.Get("/requester/{name}", h.ListByRequester)
		r.Get("/user/{userId}", h.ListByUser)

		r.Get("/{id}", h.Get)
		r.Get("/{id}/details", h.Details)
		r.With(maintainers).Patch("/{id}", h.Update)
		r.With(maintainers).Delete("/{id}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := validation.Decode(w, r, &req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	b, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Created(w, ToBreakdownResponse(b))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToBreakdownResponseList(items))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToBreakdownResponse(b))
}

func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	d, err := h.service.Details(r.Context(), id)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToDetailsResponse(d))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	var req UpdateRequest
	if err := validation.Decode(w, r, &req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	b, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToBreakdownResponse(b))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListByDateRange(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListByDateRange(
		r.Context(),
		chi.URLParam(r, "start"),
		chi.URLParam(r, "end"),
	)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToBreakdownResponseList(items))
}

func (h *Handler) ListByRequester(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	items, err := h.service.ListByRequester(r.Context(), name)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToBreakdownResponseList(items))
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ToBreakdownResponseList(items))
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ValidationError("Invalid breakdown ID")
	}
	return id, nil
}
