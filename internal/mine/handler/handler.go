package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"oreledger/internal/mine"
	"oreledger/internal/platform/metrics"
	"oreledger/internal/platform/middleware"
	"oreledger/internal/transport/http/shared"
	"oreledger/pkg/domain"
	dErrors "oreledger/pkg/domain-errors"
)

// Service defines the interface for mine registry operations.
type Service interface {
	Register(ctx context.Context, caller domain.Identity, mineID, location string, minerals []string) error
	Verify(ctx context.Context, caller domain.Identity, mineID string) error
	Details(ctx context.Context, mineID string) (*mine.Mine, error)
	IsVerified(ctx context.Context, mineID string) (bool, error)
}

// Handler handles mine registry endpoints.
type Handler struct {
	logger  *slog.Logger
	mines   Service
	metrics *metrics.Metrics
}

func New(mines Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, mines: mines, metrics: m}
}

// Register mounts the mine routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/mines", h.handleRegisterMine)
	r.Post("/mines/{mineID}/verify", h.handleVerifyMine)
	r.Get("/mines/{mineID}", h.handleGetMine)
	r.Get("/mines/{mineID}/verified", h.handleIsVerified)
}

type registerMineRequest struct {
	MineID   string   `json:"mine_id"`
	Location string   `json:"location"`
	Minerals []string `json:"minerals"`
}

func (h *Handler) handleRegisterMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetCaller(ctx)

	var req registerMineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.mines.Register(ctx, caller, req.MineID, req.Location, req.Minerals); err != nil {
		h.logger.WarnContext(ctx, "register mine rejected",
			"request_id", middleware.GetRequestID(ctx),
			"mine_id", req.MineID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.MinesRegistered.Inc()
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleVerifyMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mineID := chi.URLParam(r, "mineID")

	if err := h.mines.Verify(ctx, middleware.GetCaller(ctx), mineID); err != nil {
		h.logger.WarnContext(ctx, "verify mine rejected",
			"request_id", middleware.GetRequestID(ctx),
			"mine_id", mineID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.MinesVerified.Inc()
	w.WriteHeader(http.StatusNoContent)
}

type mineResponse struct {
	MineID           string   `json:"mine_id"`
	Owner            string   `json:"owner"`
	Location         string   `json:"location"`
	Minerals         []string `json:"minerals"`
	Verified         bool     `json:"verified"`
	VerificationDate uint64   `json:"verification_date"`
	Verifier         string   `json:"verifier"`
}

func (h *Handler) handleGetMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mineID := chi.URLParam(r, "mineID")

	m, err := h.mines.Details(ctx, mineID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if m == nil {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeMineNotFound, "mine %q not registered", mineID))
		return
	}

	shared.WriteJSON(w, http.StatusOK, mineResponse{
		MineID:           m.ID,
		Owner:            m.Owner.String(),
		Location:         m.Location,
		Minerals:         m.Minerals,
		Verified:         m.Verified,
		VerificationDate: uint64(m.VerificationDate),
		Verifier:         m.Verifier.String(),
	})
}

func (h *Handler) handleIsVerified(w http.ResponseWriter, r *http.Request) {
	verified, err := h.mines.IsVerified(r.Context(), chi.URLParam(r, "mineID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"verified": verified})
}
