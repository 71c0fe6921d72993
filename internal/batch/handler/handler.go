package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"oreledger/internal/batch"
	"oreledger/internal/platform/metrics"
	"oreledger/internal/platform/middleware"
	"oreledger/internal/transport/http/shared"
	"oreledger/pkg/domain"
	dErrors "oreledger/pkg/domain-errors"
)

// Service defines the interface for batch ledger operations.
type Service interface {
	Register(ctx context.Context, caller domain.Identity, batchID, mineID, mineralType string, quantity int64) error
	Transfer(ctx context.Context, caller domain.Identity, batchID string, recipient domain.Identity, location string) (domain.SequenceNumber, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, batchID, newStatus string) error
	Details(ctx context.Context, batchID string) (*batch.Batch, error)
	TransferRecord(ctx context.Context, batchID string, seq domain.SequenceNumber) (*batch.Transfer, error)
	History(ctx context.Context, batchID string) ([]batch.Transfer, error)
}

// Handler handles batch ledger endpoints.
type Handler struct {
	logger  *slog.Logger
	batches Service
	metrics *metrics.Metrics
}

func New(batches Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, batches: batches, metrics: m}
}

// Register mounts the batch routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/batches", h.handleRegisterBatch)
	r.Post("/batches/{batchID}/transfer", h.handleTransferBatch)
	r.Post("/batches/{batchID}/status", h.handleUpdateStatus)
	r.Get("/batches/{batchID}", h.handleGetBatch)
	r.Get("/batches/{batchID}/transfers", h.handleListTransfers)
	r.Get("/batches/{batchID}/transfers/{sequence}", h.handleGetTransfer)
}

type registerBatchRequest struct {
	BatchID     string `json:"batch_id"`
	MineID      string `json:"mine_id"`
	MineralType string `json:"mineral_type"`
	Quantity    int64  `json:"quantity"`
}

func (h *Handler) handleRegisterBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	err := h.batches.Register(ctx, middleware.GetCaller(ctx), req.BatchID, req.MineID, req.MineralType, req.Quantity)
	if err != nil {
		h.logger.WarnContext(ctx, "register batch rejected",
			"request_id", middleware.GetRequestID(ctx),
			"batch_id", req.BatchID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.BatchesRegistered.Inc()
	w.WriteHeader(http.StatusCreated)
}

type transferRequest struct {
	Recipient string `json:"recipient"`
	Location  string `json:"location"`
}

func (h *Handler) handleTransferBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchID := chi.URLParam(r, "batchID")

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	seq, err := h.batches.Transfer(ctx, middleware.GetCaller(ctx), batchID, domain.Identity(req.Recipient), req.Location)
	if err != nil {
		h.logger.WarnContext(ctx, "transfer rejected",
			"request_id", middleware.GetRequestID(ctx),
			"batch_id", batchID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.BatchesTransferred.Inc()
	shared.WriteJSON(w, http.StatusOK, map[string]uint64{"sequence": uint64(seq)})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchID := chi.URLParam(r, "batchID")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.batches.UpdateStatus(ctx, middleware.GetCaller(ctx), batchID, req.Status); err != nil {
		h.logger.WarnContext(ctx, "status update rejected",
			"request_id", middleware.GetRequestID(ctx),
			"batch_id", batchID,
			"status", req.Status,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.BatchStatusUpdates.Inc()
	w.WriteHeader(http.StatusNoContent)
}

type batchResponse struct {
	BatchID        string `json:"batch_id"`
	MineID         string `json:"mine_id"`
	MineralType    string `json:"mineral_type"`
	Quantity       int64  `json:"quantity"`
	ExtractionDate uint64 `json:"extraction_date"`
	CurrentOwner   string `json:"current_owner"`
	Status         string `json:"status"`
}

func (h *Handler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	b, err := h.batches.Details(r.Context(), batchID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if b == nil {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeBatchNotFound, "batch %q not registered", batchID))
		return
	}

	shared.WriteJSON(w, http.StatusOK, batchResponse{
		BatchID:        b.ID,
		MineID:         b.MineID,
		MineralType:    b.MineralType,
		Quantity:       b.Quantity,
		ExtractionDate: uint64(b.ExtractionDate),
		CurrentOwner:   b.CurrentOwner.String(),
		Status:         string(b.Status),
	})
}

type transferResponse struct {
	BatchID   string `json:"batch_id"`
	Sequence  uint64 `json:"sequence"`
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp uint64 `json:"timestamp"`
	Location  string `json:"location"`
}

func (h *Handler) handleGetTransfer(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	seq, err := strconv.ParseUint(chi.URLParam(r, "sequence"), 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "sequence must be a non-negative integer"))
		return
	}

	t, err := h.batches.TransferRecord(r.Context(), batchID, domain.SequenceNumber(seq))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if t == nil {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeBatchNotFound, "no transfer %d for batch %q", seq, batchID))
		return
	}

	shared.WriteJSON(w, http.StatusOK, toTransferResponse(*t))
}

func (h *Handler) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	ts, err := h.batches.History(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]transferResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransferResponse(t))
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func toTransferResponse(t batch.Transfer) transferResponse {
	return transferResponse{
		BatchID:   t.BatchID,
		Sequence:  uint64(t.Sequence),
		From:      t.From.String(),
		To:        t.To.String(),
		Timestamp: uint64(t.Timestamp),
		Location:  t.Location,
	}
}
