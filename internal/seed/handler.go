// AngelaMos | 2026
// handler.go

package seed

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/startup-perks/internal/core"
)

type Handler struct {
	seeder *Seeder
}

func NewHandler(seeder *Seeder) *Handler {
	return &Handler{seeder: seeder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/seed", h.Seed)
}

func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	if _, err := h.seeder.Run(r.Context()); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Message(w, http.StatusOK, "Sample data seeded successfully")
}
