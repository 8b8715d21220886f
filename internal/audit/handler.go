package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/portiva/portiva/internal/guard"
	"github.com/portiva/portiva/internal/identity"
	"github.com/portiva/portiva/internal/platform/httpx"
	"github.com/portiva/portiva/internal/shared"
)

// Handler exposes the audit trail to administrators.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   *guard.Guard
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, g *guard.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: g}
}

// MountRoutes registers audit routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/recent", h.listRecent)
}

func (h *Handler) listRecent(w http.ResponseWriter, r *http.Request) {
	sessionID := shared.SessionIDFromContext(r.Context())
	res, err := h.guard.Check(r.Context(), sessionID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !res.Allowed() || res.Principal.Role != identity.RoleAdmin {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	events, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		h.log().Error("audit recent", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
