package ledger

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oreledger/internal/audit"
	audithandler "oreledger/internal/audit/handler"
	batchhandler "oreledger/internal/batch/handler"
	batchservice "oreledger/internal/batch/service"
	batchstore "oreledger/internal/batch/store"
	certhandler "oreledger/internal/certification/handler"
	certservice "oreledger/internal/certification/service"
	certstore "oreledger/internal/certification/store"
	minehandler "oreledger/internal/mine/handler"
	mineservice "oreledger/internal/mine/service"
	minestore "oreledger/internal/mine/store"
	"oreledger/internal/platform/clock"
	"oreledger/internal/platform/metrics"
	httptransport "oreledger/internal/transport/http"
	"oreledger/pkg/domain"
)

var signingKey = []byte("integration-test-signing-key")

// newServer wires the full stack over memory stores, the way main does.
func newServer(t *testing.T, owner string) (http.Handler, *clock.Ledger) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWith(prometheus.NewRegistry())
	ledger := clock.NewLedger(1000)
	auditor := audit.NewPublisher(audit.NewInMemoryStore(), nil, logger)

	mines := mineservice.NewService(minestore.NewInMemory(), ledger, auditor)
	batches := batchservice.NewService(batchstore.NewInMemory(), mines, ledger, auditor)
	certs := certservice.NewService(certstore.NewInMemory(), batches, ledger, auditor, domain.Identity(owner))

	return httptransport.NewRouter(httptransport.Deps{
		Logger:  logger,
		Metrics: m,
		JWTKey:  signingKey,
		Mines:   minehandler.New(mines, logger, m),
		Batches: batchhandler.New(batches, logger, m),
		Certs:   certhandler.New(certs, logger, m),
		Audit:   audithandler.New(auditor, logger),
	}), ledger
}

func token(t *testing.T, subject string) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	require.NoError(t, err)
	return signed
}

func call(t *testing.T, h http.Handler, method, path, subject string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, subject))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAuthentication(t *testing.T) {
	h, _ := newServer(t, "owner")

	t.Run("requests without a token are rejected", func(t *testing.T) {
		rec := call(t, h, http.MethodGet, "/mines/m1", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tokens signed with the wrong key are rejected", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-key"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/mines/m1", nil)
		req.Header.Set("Authorization", "Bearer "+bad)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("health and metrics stay open", func(t *testing.T) {
		rec := call(t, h, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = call(t, h, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// TestProvenanceFlow walks a batch from mine registration through transfers,
// certification, and revocation, checking the cross-registry gates along the
// way.
func TestProvenanceFlow(t *testing.T) {
	h, ledger := newServer(t, "owner")

	t.Run("batch registration is gated on a verified mine", func(t *testing.T) {
		rec := call(t, h, http.MethodPost, "/batches", "alice", map[string]any{
			"batch_id": "b1", "mine_id": "m1", "mineral_type": "gold", "quantity": 50,
		})
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = call(t, h, http.MethodPost, "/mines", "alice", map[string]any{
			"mine_id": "m1", "location": "Congo Basin, Region A", "minerals": []string{"gold", "tin"},
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = call(t, h, http.MethodPost, "/batches", "alice", map[string]any{
			"batch_id": "b1", "mine_id": "m1", "mineral_type": "gold", "quantity": 50,
		})
		require.Equal(t, http.StatusNotFound, rec.Code, "registered but unverified mine still blocks")

		rec = call(t, h, http.MethodPost, "/mines/m1/verify", "alice", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = call(t, h, http.MethodPost, "/batches", "alice", map[string]any{
			"batch_id": "b1", "mine_id": "m1", "mineral_type": "gold", "quantity": 50,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("custody chain with logical timestamps", func(t *testing.T) {
		rec := call(t, h, http.MethodPost, "/batches/b1/transfer", "alice", map[string]any{
			"recipient": "bob", "location": "Warehouse 7",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		first := decode[map[string]uint64](t, rec)
		assert.EqualValues(t, 0, first["sequence"])

		ledger.Advance()

		rec = call(t, h, http.MethodPost, "/batches/b1/transfer", "bob", map[string]any{
			"recipient": "carol", "location": "Smelter",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		second := decode[map[string]uint64](t, rec)
		assert.EqualValues(t, 1, second["sequence"])

		rec = call(t, h, http.MethodGet, "/batches/b1/transfers", "anyone", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		history := decode[[]map[string]any](t, rec)
		require.Len(t, history, 2)
		assert.EqualValues(t, 1000, history[0]["timestamp"])
		assert.EqualValues(t, 1001, history[1]["timestamp"])
	})

	t.Run("certifier roster is owner gated", func(t *testing.T) {
		rec := call(t, h, http.MethodPost, "/certifiers", "alice", map[string]any{"address": "dave"})
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = call(t, h, http.MethodPost, "/certifiers", "owner", map[string]any{"address": "dave"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = call(t, h, http.MethodGet, "/certifiers/dave", "anyone", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decode[map[string]bool](t, rec)["active"])
	})

	t.Run("certification lifecycle", func(t *testing.T) {
		rec := call(t, h, http.MethodPost, "/certifications", "mallory", map[string]any{
			"batch_id": "b1", "standards": []string{"ISO-14001"}, "validity_period": 1000,
		})
		require.Equal(t, http.StatusForbidden, rec.Code, "non-certifiers cannot issue")

		rec = call(t, h, http.MethodPost, "/certifications", "dave", map[string]any{
			"batch_id": "ghost", "standards": []string{"ISO-14001"}, "validity_period": 1000,
		})
		require.Equal(t, http.StatusNotFound, rec.Code, "unknown batches cannot be certified")

		rec = call(t, h, http.MethodPost, "/certifications", "dave", map[string]any{
			"batch_id": "b1", "standards": []string{"ISO-14001"}, "validity_period": 1000, "notes": "clean audit",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = call(t, h, http.MethodPost, "/certifications", "dave", map[string]any{
			"batch_id": "b1", "standards": []string{"RJC-COP"}, "validity_period": 1000,
		})
		require.Equal(t, http.StatusConflict, rec.Code, "one certification per batch")

		rec = call(t, h, http.MethodPost, "/certifications/b1/revoke", "mallory", map[string]any{"reason": "fraud"})
		require.Equal(t, http.StatusForbidden, rec.Code, "third parties cannot revoke")

		rec = call(t, h, http.MethodPost, "/certifications/b1/revoke", "dave", map[string]any{"reason": "falsified paperwork"})
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = call(t, h, http.MethodGet, "/certifications/b1", "anyone", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		cert := decode[map[string]any](t, rec)
		assert.Equal(t, "revoked", cert["status"])
		assert.Equal(t, "falsified paperwork", cert["notes"])

		rec = call(t, h, http.MethodPost, "/certifications", "dave", map[string]any{
			"batch_id": "b1", "standards": []string{"ISO-14001"}, "validity_period": 1000,
		})
		require.Equal(t, http.StatusConflict, rec.Code, "revocation is permanent")
	})

	t.Run("audit trail covers the batch lifecycle", func(t *testing.T) {
		rec := call(t, h, http.MethodGet, "/audit/events?subject=b1", "anyone", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		events := decode[[]map[string]any](t, rec)

		var actions []string
		for _, e := range events {
			actions = append(actions, e["action"].(string))
		}
		assert.Equal(t, []string{
			"batch.registered",
			"batch.transferred",
			"batch.transferred",
			"certification.issued",
			"certification.revoked",
		}, actions)
	})
}

// TestStatusLifecycleOverHTTP covers the custodian gate and the terminal
// state.
func TestStatusLifecycleOverHTTP(t *testing.T) {
	h, _ := newServer(t, "owner")

	rec := call(t, h, http.MethodPost, "/mines", "alice", map[string]any{"mine_id": "m1", "location": "loc"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = call(t, h, http.MethodPost, "/mines/m1/verify", "alice", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = call(t, h, http.MethodPost, "/batches", "alice", map[string]any{
		"batch_id": "b1", "mine_id": "m1", "mineral_type": "tin", "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, h, http.MethodPost, "/batches/b1/status", "mallory", map[string]any{"status": "processed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, h, http.MethodPost, "/batches/b1/status", "alice", map[string]any{"status": "processed"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, h, http.MethodPost, "/batches/b1/status", "alice", map[string]any{"status": "final"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, h, http.MethodPost, "/batches/b1/status", "alice", map[string]any{"status": "in-transit"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "final is terminal")
}
