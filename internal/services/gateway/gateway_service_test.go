package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/adapters/secrets"
	"github.com/kevin07696/payment-connectors/internal/connectors/registry"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// stubTransport replays canned responses and records every outbound request.
type stubTransport struct {
	requests  []*ports.ConnectorRequest
	responses []*ports.ConnectorResponse
	err       error
}

func (t *stubTransport) Send(ctx context.Context, req *ports.ConnectorRequest) (*ports.ConnectorResponse, error) {
	t.requests = append(t.requests, req)
	if t.err != nil {
		return nil, t.err
	}
	resp := t.responses[0]
	if len(t.responses) > 1 {
		t.responses = t.responses[1:]
	}
	return resp, nil
}

type mergeCall struct {
	attemptID string
	status    models.AttemptStatus
	source    models.EventSource
	data      *models.ResponseData
	errResp   *models.ErrorResponse
}

// recordingStore captures Create and Merge calls.
type recordingStore struct {
	created  []*models.PaymentAttempt
	merges   []mergeCall
	mergeErr error
}

func (s *recordingStore) Create(ctx context.Context, attempt *models.PaymentAttempt) error {
	s.created = append(s.created, attempt)
	return nil
}

func (s *recordingStore) Read(ctx context.Context, attemptID string) (*ports.AttemptSnapshot, error) {
	return nil, errors.New("not found")
}

func (s *recordingStore) ReadByConnectorTransactionID(ctx context.Context, connector, transactionID string) (*ports.AttemptSnapshot, error) {
	return nil, errors.New("not found")
}

func (s *recordingStore) Merge(ctx context.Context, attemptID string, status models.AttemptStatus, source models.EventSource, data *models.ResponseData, errResp *models.ErrorResponse) error {
	s.merges = append(s.merges, mergeCall{attemptID, status, source, data, errResp})
	return s.mergeErr
}

func newTestService(t *testing.T, transport ports.Transport) (*Service, *recordingStore) {
	t.Helper()
	reg, err := registry.NewRegistry(registry.Deps{
		Transport:   transport,
		Logger:      zap.NewNop(),
		Environment: "sandbox",
	})
	require.NoError(t, err)

	authStore := secrets.NewLocalAuthStore()
	authStore.Set("m_1", "stripe", ports.ConnectorAuth{Kind: ports.AuthHeaderKey, APIKey: "sk_test_1"})

	store := &recordingStore{}
	return NewService(reg, authStore, store, zap.NewNop()), store
}

func stripeAttempt() *models.PaymentAttempt {
	return &models.PaymentAttempt{
		MerchantID:  "m_1",
		Connector:   "stripe",
		AmountMinor: 1050,
		Currency:    "USD",
	}
}

func TestAuthorize(t *testing.T) {
	t.Run("successful charge", func(t *testing.T) {
		transport := &stubTransport{responses: []*ports.ConnectorResponse{{
			StatusCode: 200,
			Body:       []byte(`{"id": "pi_1", "status": "succeeded", "amount": 1050, "currency": "usd"}`),
		}}}
		svc, store := newTestService(t, transport)

		req := &ports.AuthorizeRequest{
			Attempt: stripeAttempt(),
			PaymentMethod: models.PaymentMethodData{
				Card: &models.Card{Number: "4242424242424242", ExpMonth: "03", ExpYear: "2030", CVC: "123"},
			},
		}
		result, err := svc.Authorize(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCharged, result.Status)
		assert.Equal(t, "pi_1", result.Response.ConnectorTransactionID)

		// The attempt is created before the connector is called, with an
		// assigned id and a pending status.
		require.Len(t, store.created, 1)
		assert.NotEmpty(t, store.created[0].ID)
		assert.Equal(t, models.StatusPending, store.created[0].Status)

		require.Len(t, transport.requests, 1)
		assert.Equal(t, "https://api.stripe.com/v1/payment_intents", transport.requests[0].URL)
		assert.Equal(t, "Bearer sk_test_1", transport.requests[0].Headers["Authorization"])

		require.Len(t, store.merges, 1)
		assert.Equal(t, store.created[0].ID, store.merges[0].attemptID)
		assert.Equal(t, models.StatusCharged, store.merges[0].status)
		assert.Equal(t, models.SourceAuthorizeResponse, store.merges[0].source)
	})

	t.Run("business decline is a result, not an error", func(t *testing.T) {
		transport := &stubTransport{responses: []*ports.ConnectorResponse{{
			StatusCode: 402,
			Body:       []byte(`{"error": {"code": "card_declined", "message": "Your card was declined.", "decline_code": "do_not_honor", "payment_intent": {"id": "pi_1"}}}`),
		}}}
		svc, store := newTestService(t, transport)

		result, err := svc.Authorize(context.Background(), &ports.AuthorizeRequest{
			Attempt: stripeAttempt(),
			PaymentMethod: models.PaymentMethodData{
				Card: &models.Card{Number: "4000000000000002", ExpMonth: "03", ExpYear: "2030", CVC: "123"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailure, result.Status)
		require.NotNil(t, result.Error)
		assert.Equal(t, "card_declined", result.Error.Code)

		require.Len(t, store.merges, 1)
		assert.Equal(t, models.StatusFailure, store.merges[0].status)
		require.NotNil(t, store.merges[0].errResp)
	})

	t.Run("unknown connector", func(t *testing.T) {
		transport := &stubTransport{}
		svc, store := newTestService(t, transport)

		attempt := stripeAttempt()
		attempt.Connector = "braintree"
		_, err := svc.Authorize(context.Background(), &ports.AuthorizeRequest{
			Attempt:       attempt,
			PaymentMethod: models.PaymentMethodData{Card: &models.Card{Number: "4", ExpMonth: "03", ExpYear: "2030"}},
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindInvalidConnectorConfig))
		assert.Empty(t, transport.requests)
		assert.Empty(t, store.merges)
	})

	t.Run("missing credentials", func(t *testing.T) {
		transport := &stubTransport{}
		svc, _ := newTestService(t, transport)

		attempt := stripeAttempt()
		attempt.MerchantID = "m_unknown"
		_, err := svc.Authorize(context.Background(), &ports.AuthorizeRequest{
			Attempt:       attempt,
			PaymentMethod: models.PaymentMethodData{Card: &models.Card{Number: "4", ExpMonth: "03", ExpYear: "2030"}},
		})
		require.Error(t, err)
		assert.Empty(t, transport.requests)
	})

	t.Run("transport failure", func(t *testing.T) {
		transport := &stubTransport{err: errors.New("connection reset")}
		svc, store := newTestService(t, transport)

		_, err := svc.Authorize(context.Background(), &ports.AuthorizeRequest{
			Attempt: stripeAttempt(),
			PaymentMethod: models.PaymentMethodData{
				Card: &models.Card{Number: "4242424242424242", ExpMonth: "03", ExpYear: "2030", CVC: "123"},
			},
		})
		require.Error(t, err)
		assert.Empty(t, store.merges)
	})

	t.Run("persistence failure does not fail the flow", func(t *testing.T) {
		transport := &stubTransport{responses: []*ports.ConnectorResponse{{
			StatusCode: 200,
			Body:       []byte(`{"id": "pi_1", "status": "succeeded"}`),
		}}}
		svc, store := newTestService(t, transport)
		store.mergeErr = errors.New("db down")

		result, err := svc.Authorize(context.Background(), &ports.AuthorizeRequest{
			Attempt: stripeAttempt(),
			PaymentMethod: models.PaymentMethodData{
				Card: &models.Card{Number: "4242424242424242", ExpMonth: "03", ExpYear: "2030", CVC: "123"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusCharged, result.Status)
	})
}

func TestCapture(t *testing.T) {
	transport := &stubTransport{responses: []*ports.ConnectorResponse{{
		StatusCode: 200,
		Body:       []byte(`{"id": "pi_1", "status": "succeeded"}`),
	}}}
	svc, store := newTestService(t, transport)

	attempt := stripeAttempt()
	attempt.ID = "att_1"
	result, err := svc.Capture(context.Background(), &ports.CaptureRequest{
		Attempt:                attempt,
		ConnectorTransactionID: "pi_1",
		AmountMinor:            1050,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCharged, result.Status)

	require.Len(t, transport.requests, 1)
	assert.Equal(t, "https://api.stripe.com/v1/payment_intents/pi_1/capture", transport.requests[0].URL)

	require.Len(t, store.merges, 1)
	assert.Equal(t, "att_1", store.merges[0].attemptID)
	assert.Equal(t, models.SourceCaptureResponse, store.merges[0].source)
}

func TestSyncUsesSyncSource(t *testing.T) {
	transport := &stubTransport{responses: []*ports.ConnectorResponse{{
		StatusCode: 200,
		Body:       []byte(`{"id": "pi_1", "status": "requires_capture"}`),
	}}}
	svc, store := newTestService(t, transport)

	attempt := stripeAttempt()
	attempt.ID = "att_1"
	result, err := svc.Sync(context.Background(), &ports.SyncRequest{
		Attempt:                attempt,
		ConnectorTransactionID: "pi_1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAuthorized, result.Status)

	require.Len(t, store.merges, 1)
	assert.Equal(t, models.SourceSyncResponse, store.merges[0].source)
}

func TestCapabilityGate(t *testing.T) {
	transport := &stubTransport{}
	svc, store := newTestService(t, transport)

	attempt := stripeAttempt()
	attempt.Connector = "bankofamerica"
	_, err := svc.SubmitEvidence(context.Background(), &ports.DisputeRequest{
		Attempt:            attempt,
		ConnectorDisputeID: "dp_1",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindFlowNotSupported))
	assert.Empty(t, transport.requests)
	assert.Empty(t, store.merges)
}

func TestDisputeFlowDoesNotTouchAttempt(t *testing.T) {
	transport := &stubTransport{responses: []*ports.ConnectorResponse{{
		StatusCode: 200,
		Body:       []byte(`{"id": "dp_1", "status": "under_review"}`),
	}}}
	svc, store := newTestService(t, transport)

	attempt := stripeAttempt()
	attempt.ID = "att_1"
	result, err := svc.SubmitEvidence(context.Background(), &ports.DisputeRequest{
		Attempt:            attempt,
		ConnectorDisputeID: "dp_1",
		Evidence: []ports.EvidenceFile{
			{Name: "receipt", ContentType: "text/plain", Content: []byte("order receipt")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "dp_1", result.Response.ConnectorTransactionID)

	// Dispute outcomes never merge into the attempt.
	assert.Empty(t, store.merges)
}
