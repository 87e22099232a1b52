package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/api/wire"
	"github.com/clintrovert/ticketpilot/internal/assistant"
)

// Handler handles REST API requests
type Handler struct {
	assistant *assistant.Service
	logger    *zap.Logger
}

// NewHandler creates a new REST handler
func NewHandler(svc *assistant.Service, logger *zap.Logger) *Handler {
	return &Handler{
		assistant: svc,
		logger:    logger,
	}
}

// StartSession handles POST /api/session/start
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.assistant.StartSession(r.Context())
	if err != nil {
		h.logger.Error("failed to start session", zap.Error(err))
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.ToSessionResponse(session))
}

// AnalyzeTicket handles POST /api/ticket/{key}/analyze
func (h *Handler) AnalyzeTicket(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	ticket, analysis, err := h.assistant.AnalyzeTicket(r.Context(), key)
	if err != nil {
		h.fail(w, "failed to analyze ticket", key, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.ToAnalyzeResponse(ticket, analysis, h.assistant.Current()))
}

// TicketURL handles GET /api/ticket/{key}/url
func (h *Handler) TicketURL(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	u, err := h.assistant.TicketURL(key)
	if err != nil {
		h.fail(w, "failed to build ticket url", key, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.URLResponse{URL: u})
}

// Recommendation handles GET /api/ticket/{key}/recommendation
func (h *Handler) Recommendation(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	rec, err := h.assistant.Recommendation(r.Context(), key)
	if err != nil {
		h.fail(w, "failed to recommend", key, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// RankedTickets handles GET /api/tickets/ranked
func (h *Handler) RankedTickets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wire.RankedResponse{Tickets: h.assistant.Ranked()})
}

// Notify handles POST /api/ticket/{key}/notify
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.assistant.Notify(r.Context(), key); err != nil {
		h.fail(w, "failed to notify", key, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.NotifyResponse{Success: true})
}

// StartPR handles POST /api/ticket/{key}/pr
func (h *Handler) StartPR(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	workflowID, err := h.assistant.StartPR(r.Context(), key)
	if err != nil {
		h.fail(w, "failed to start pull request", key, err)
		return
	}

	writeJSON(w, http.StatusAccepted, wire.PRResponse{
		WorkflowID: workflowID,
		Status:     "started",
	})
}

// PRStatus handles GET /api/ticket/{key}/pr
func (h *Handler) PRStatus(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	status, err := h.assistant.PRStatus(r.Context(), key)
	if err != nil {
		if errors.Is(err, assistant.ErrPullRequestsDisabled) {
			h.fail(w, "failed to get pull request status", key, err)
			return
		}
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.PRResponse{
		WorkflowID: status.WorkflowID,
		RunID:      status.RunID,
		Status:     status.Status,
	})
}

// CancelPR handles DELETE /api/ticket/{key}/pr
func (h *Handler) CancelPR(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	workflowID, err := h.assistant.CancelPR(r.Context(), key)
	if err != nil {
		h.fail(w, "failed to cancel pull request", key, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.PRResponse{WorkflowID: workflowID, Status: "cancelled"})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// RegisterRoutes registers REST API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/session/start", h.StartSession)
		r.Get("/tickets/ranked", h.RankedTickets)
		r.Route("/ticket/{key}", func(r chi.Router) {
			r.Post("/analyze", h.AnalyzeTicket)
			r.Get("/url", h.TicketURL)
			r.Get("/recommendation", h.Recommendation)
			r.Post("/notify", h.Notify)
			r.Post("/pr", h.StartPR)
			r.Get("/pr", h.PRStatus)
			r.Delete("/pr", h.CancelPR)
		})
	})
}

func (h *Handler) fail(w http.ResponseWriter, msg, key string, err error) {
	switch {
	case errors.Is(err, assistant.ErrTicketNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, assistant.ErrNotificationsDisabled), errors.Is(err, assistant.ErrPullRequestsDisabled):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		h.logger.Error(msg, zap.String("ticket", key), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, wire.ErrorResponse{Error: err.Error()})
}
