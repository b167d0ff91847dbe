package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/connectors/registry"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	webhooksvc "github.com/kevin07696/payment-connectors/internal/services/webhook"
)

type fakeStore struct {
	attempt *models.PaymentAttempt
}

func (s *fakeStore) Create(ctx context.Context, attempt *models.PaymentAttempt) error { return nil }

func (s *fakeStore) Read(ctx context.Context, attemptID string) (*ports.AttemptSnapshot, error) {
	return nil, errors.New("attempt not found")
}

func (s *fakeStore) ReadByConnectorTransactionID(ctx context.Context, connector, transactionID string) (*ports.AttemptSnapshot, error) {
	if s.attempt == nil || s.attempt.ConnectorTransactionID != transactionID {
		return nil, errors.New("attempt not found")
	}
	return &ports.AttemptSnapshot{Attempt: s.attempt}, nil
}

func (s *fakeStore) Merge(ctx context.Context, attemptID string, status models.AttemptStatus, source models.EventSource, data *models.ResponseData, errResp *models.ErrorResponse) error {
	return nil
}

func newTestMux(t *testing.T, store *fakeStore) *http.ServeMux {
	t.Helper()
	reg, err := registry.NewRegistry(registry.Deps{Logger: zap.NewNop(), Environment: "sandbox"})
	require.NoError(t, err)

	handler := NewHandler(webhooksvc.NewService(reg, store, zap.NewNop()), zap.NewNop())
	mux := http.NewServeMux()
	handler.Register(mux)
	return mux
}

func TestHandle(t *testing.T) {
	t.Run("applies a known event", func(t *testing.T) {
		mux := newTestMux(t, &fakeStore{attempt: &models.PaymentAttempt{
			ID:                     "att_1",
			Connector:              "stripe",
			ConnectorTransactionID: "pi_1",
			Status:                 models.StatusPending,
		}})

		body := `{"id": "evt_1", "type": "payment_intent.succeeded", "data": {"object": {"id": "pi_1", "status": "succeeded", "metadata": {"order_id": "order_1"}}}}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Event           string `json:"event"`
			ObjectReference string `json:"object_reference"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "payment_intent_success", resp.Event)
		assert.Equal(t, "order_1", resp.ObjectReference)
	})

	t.Run("method not allowed", func(t *testing.T) {
		mux := newTestMux(t, &fakeStore{})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhooks/stripe", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("unknown connector", func(t *testing.T) {
		mux := newTestMux(t, &fakeStore{})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/braintree", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("connector without webhooks", func(t *testing.T) {
		mux := newTestMux(t, &fakeStore{})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/bankofamerica", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("undecodable body", func(t *testing.T) {
		mux := newTestMux(t, &fakeStore{})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`not json`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown attempt asks for redelivery", func(t *testing.T) {
		mux := newTestMux(t, &fakeStore{})
		body := `{"id": "evt_1", "type": "payment_intent.succeeded", "data": {"object": {"id": "pi_1", "status": "succeeded"}}}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(body)))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
