package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"oreledger/internal/audit"
	"oreledger/internal/transport/http/shared"
	dErrors "oreledger/pkg/domain-errors"
)

// Trail is the read surface over the audit store.
type Trail interface {
	List(ctx context.Context, subject string) ([]audit.Event, error)
}

// Handler exposes the audit trail for compliance reads.
type Handler struct {
	logger *slog.Logger
	trail  Trail
}

func New(trail Trail, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, trail: trail}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/events", h.handleListEvents)
}

type eventResponse struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Height    uint64 `json:"height"`
	Actor     string `json:"actor"`
	Subject   string `json:"subject"`
	Action    string `json:"action"`
	Reason    string `json:"reason,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "subject query parameter required"))
		return
	}

	events, err := h.trail.List(r.Context(), subject)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list audit events"))
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			ID:        e.ID.String(),
			Timestamp: e.Timestamp.Format("2006-01-02T15:04:05.999999999Z07:00"),
			Height:    uint64(e.Height),
			Actor:     e.Actor.String(),
			Subject:   e.Subject,
			Action:    e.Action,
			Reason:    e.Reason,
			Detail:    e.Detail,
		})
	}
	shared.WriteJSON(w, http.StatusOK, out)
}
