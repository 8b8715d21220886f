package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/portiva/portiva/internal/audit"
	"github.com/portiva/portiva/internal/guard"
	"github.com/portiva/portiva/internal/observability"
	"github.com/portiva/portiva/internal/platform/httpx"
	"github.com/portiva/portiva/internal/shared"
	"github.com/portiva/portiva/internal/upstream"
)

// Handler wires the HTTP endpoints for login, logout, the per-navigation
// decision and the two gate exits.
type Handler struct {
	logger    *slog.Logger
	manager   *Manager
	upstream  *upstream.Client
	audit     *audit.Service
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler. The manager's guards report resolution
// failures to the metrics registry from here on.
func NewHandler(logger *slog.Logger, manager *Manager, up *upstream.Client, auditSvc *audit.Service, metrics *observability.Metrics) *Handler {
	manager.OnResolveFailure(metrics.ObserveResolveFailure)
	return &Handler{
		logger:    logger,
		manager:   manager,
		upstream:  up,
		audit:     auditSvc,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers session routes on the provided router. Login is
// mounted separately so the router can wrap it with a tighter rate limit.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/logout", h.handleLogout)
	r.Get("/decision", h.handleDecision)
	r.Post("/gate/complete", h.handleGateComplete)
	r.Post("/gate/terminate", h.handleGateTerminate)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login proxies credentials upstream and, on success, establishes the
// session credential. This is the sole entry point that stores a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var form loginRequest
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	sessionID := shared.SessionIDFromContext(r.Context())
	token, err := h.upstream.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		h.audit.Record(r.Context(), audit.Event{SessionID: sessionID, Kind: audit.KindLogin, Outcome: "rejected"})
		httpx.RespondError(w, err)
		return
	}

	ctrl := h.manager.Controller(sessionID)
	if err := ctrl.Login(r.Context(), token); err != nil {
		h.log().Error("store credential", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.audit.Record(r.Context(), audit.Event{SessionID: sessionID, Kind: audit.KindLogin, Outcome: "success"})
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID := shared.SessionIDFromContext(r.Context())
	ctrl := h.manager.Controller(sessionID)
	if err := ctrl.Logout(r.Context()); err != nil {
		h.log().Error("logout", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.manager.Drop(sessionID)
	h.audit.Record(r.Context(), audit.Event{SessionID: sessionID, Kind: audit.KindLogout, Outcome: "success"})
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request) {
	screen := r.URL.Query().Get("screen")
	if screen == "" {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	sessionID := shared.SessionIDFromContext(r.Context())
	ctrl := h.manager.Controller(sessionID)

	decision, err := ctrl.Navigate(r.Context(), screen)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	outcome := "allowed"
	if !decision.Allow {
		outcome = "denied"
	}
	h.metrics.ObserveDecision(outcome)
	if decision.Gate == GateRequireProfile {
		h.metrics.ObserveGateBlock()
	}

	event := audit.Event{
		SessionID: sessionID,
		Kind:      audit.KindDecision,
		Screen:    screen,
		Outcome:   outcome,
	}
	if decision.Principal != nil {
		event.Role = string(decision.Principal.Role)
		id := decision.Principal.ID
		event.PrincipalID = &id
	}
	h.audit.Record(r.Context(), event)

	httpx.JSON(w, http.StatusOK, decision)
}

func (h *Handler) handleGateComplete(w http.ResponseWriter, r *http.Request) {
	sessionID := shared.SessionIDFromContext(r.Context())
	ctrl := h.manager.Controller(sessionID)
	path := ctrl.CompleteProfile()
	httpx.JSON(w, http.StatusOK, map[string]string{"redirect": path})
}

func (h *Handler) handleGateTerminate(w http.ResponseWriter, r *http.Request) {
	sessionID := shared.SessionIDFromContext(r.Context())
	ctrl := h.manager.Controller(sessionID)
	if err := ctrl.Logout(r.Context()); err != nil {
		h.log().Error("gate terminate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.manager.Drop(sessionID)
	h.audit.Record(r.Context(), audit.Event{SessionID: sessionID, Kind: audit.KindLogout, Outcome: "gate_terminate"})
	httpx.JSON(w, http.StatusOK, map[string]string{"redirect": string(guard.TargetLogin)})
}

func (h *Handler) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
