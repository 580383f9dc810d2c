// AngelaMos | 2026
// handler.go

package claim

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/startup-perks/internal/core"
	"github.com/carterperez-dev/startup-perks/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the claim endpoints. limiter wraps the claim
// submission only and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	limiter func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		claim := http.Handler(http.HandlerFunc(h.Claim))
		if limiter != nil {
			claim = limiter(claim)
		}
		r.Method(http.MethodPost, "/deals/{id}/claim", claim)
		r.Get("/user/claims", h.ListMine)
	})
}

func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	err := h.service.Claim(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			core.NotFound(w, "User not found")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "Deal not found")
		case errors.Is(err, ErrVerificationRequired):
			core.Forbidden(w, "Verification required for locked deals")
		case errors.Is(err, ErrAlreadyClaimed):
			core.JSONError(w, core.DuplicateError("Deal already claimed"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Message(w, http.StatusCreated, "Deal claimed successfully")
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	claims, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toResponseList(claims))
}
