package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"oreledger/internal/certification"
	"oreledger/internal/platform/metrics"
	"oreledger/internal/platform/middleware"
	"oreledger/internal/transport/http/shared"
	"oreledger/pkg/domain"
	dErrors "oreledger/pkg/domain-errors"
)

// Service defines the interface for certification registry operations.
type Service interface {
	AddCertifier(ctx context.Context, caller, address domain.Identity) error
	RemoveCertifier(ctx context.Context, caller, address domain.Identity) error
	CertifyBatch(ctx context.Context, caller domain.Identity, batchID string, standards []string, validityPeriod uint64, notes string) error
	RevokeCertification(ctx context.Context, caller domain.Identity, batchID, reason string) error
	Get(ctx context.Context, batchID string) (*certification.Certification, error)
	IsCertifier(ctx context.Context, address domain.Identity) (bool, error)
}

// Handler handles certification registry endpoints.
type Handler struct {
	logger  *slog.Logger
	certs   Service
	metrics *metrics.Metrics
}

func New(certs Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, certs: certs, metrics: m}
}

// Register mounts the certification routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/certifiers", h.handleAddCertifier)
	r.Delete("/certifiers/{address}", h.handleRemoveCertifier)
	r.Get("/certifiers/{address}", h.handleIsCertifier)
	r.Post("/certifications", h.handleCertifyBatch)
	r.Post("/certifications/{batchID}/revoke", h.handleRevoke)
	r.Get("/certifications/{batchID}", h.handleGetCertification)
}

type addCertifierRequest struct {
	Address string `json:"address"`
}

func (h *Handler) handleAddCertifier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addCertifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.certs.AddCertifier(ctx, middleware.GetCaller(ctx), domain.Identity(req.Address)); err != nil {
		h.logger.WarnContext(ctx, "add certifier rejected",
			"request_id", middleware.GetRequestID(ctx),
			"address", req.Address,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleRemoveCertifier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	address := domain.Identity(chi.URLParam(r, "address"))

	if err := h.certs.RemoveCertifier(ctx, middleware.GetCaller(ctx), address); err != nil {
		h.logger.WarnContext(ctx, "remove certifier rejected",
			"request_id", middleware.GetRequestID(ctx),
			"address", address.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleIsCertifier(w http.ResponseWriter, r *http.Request) {
	active, err := h.certs.IsCertifier(r.Context(), domain.Identity(chi.URLParam(r, "address")))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"active": active})
}

type certifyRequest struct {
	BatchID        string   `json:"batch_id"`
	Standards      []string `json:"standards"`
	ValidityPeriod uint64   `json:"validity_period"`
	Notes          string   `json:"notes"`
}

func (h *Handler) handleCertifyBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req certifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	err := h.certs.CertifyBatch(ctx, middleware.GetCaller(ctx), req.BatchID, req.Standards, req.ValidityPeriod, req.Notes)
	if err != nil {
		h.logger.WarnContext(ctx, "certification rejected",
			"request_id", middleware.GetRequestID(ctx),
			"batch_id", req.BatchID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.CertificationsIssued.Inc()
	w.WriteHeader(http.StatusCreated)
}

type revokeRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchID := chi.URLParam(r, "batchID")

	var req revokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.certs.RevokeCertification(ctx, middleware.GetCaller(ctx), batchID, req.Reason); err != nil {
		h.logger.WarnContext(ctx, "revocation rejected",
			"request_id", middleware.GetRequestID(ctx),
			"batch_id", batchID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.CertificationsRevoked.Inc()
	w.WriteHeader(http.StatusNoContent)
}

type certificationResponse struct {
	BatchID           string   `json:"batch_id"`
	Certifier         string   `json:"certifier"`
	CertificationDate uint64   `json:"certification_date"`
	ExpirationDate    uint64   `json:"expiration_date"`
	Standards         []string `json:"standards"`
	Status            string   `json:"status"`
	Notes             string   `json:"notes"`
}

func (h *Handler) handleGetCertification(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	cert, err := h.certs.Get(r.Context(), batchID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if cert == nil {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeCertificationNotFound, "no certification for batch %q", batchID))
		return
	}

	shared.WriteJSON(w, http.StatusOK, certificationResponse{
		BatchID:           cert.BatchID,
		Certifier:         cert.Certifier.String(),
		CertificationDate: uint64(cert.CertificationDate),
		ExpirationDate:    uint64(cert.ExpirationDate),
		Standards:         cert.Standards,
		Status:            string(cert.Status),
		Notes:             cert.Notes,
	})
}
