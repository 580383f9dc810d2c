// AngelaMos | 2026
// handler.go

package deal

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/startup-perks/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public catalog. Claim routes under /deals/{id}
// are added by the claim package on the same router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/deals", h.List)
	r.Get("/deals/{id}", h.Get)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	deals, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResponseList(deals))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	deal, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Deal not found")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResponse(deal))
}
