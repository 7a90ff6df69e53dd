// AngelaMos | 2026
// handler.go

package material

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kenfackariol/ITCare/internal/core"
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
	r.Route("/materials", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/details", h.Details)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Create)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req MaterialRequest
	if err := validation.Decode(w, r, &req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	m, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Created(w, Envelope{Material: ToMaterialResponse(m)})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	materials, err := h.service.List(r.Context())
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, ListEnvelope{Materials: ToMaterialResponseList(materials)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, Envelope{Material: ToMaterialResponse(m)})
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

	var req MaterialRequest
	if err := validation.Decode(w, r, &req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	m, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, Envelope{Material: ToMaterialResponse(m)})
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

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ValidationError("Invalid material ID")
	}
	return id, nil
}
