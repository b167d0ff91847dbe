package stripe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/payment-connectors/internal/domain/models"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

func TestClassifyEvent(t *testing.T) {
	tests := []struct {
		name          string
		eventType     EventType
		disputeStatus stripeDisputeStatus
		expected      models.IncomingWebhookEvent
	}{
		{"intent succeeded", EventPaymentIntentSucceeded, "", models.EventPaymentIntentSuccess},
		{"intent failed", EventPaymentIntentFailed, "", models.EventPaymentIntentFailure},
		{"charge failed", EventChargeFailed, "", models.EventPaymentIntentFailure},
		{"intent canceled", EventPaymentIntentCanceled, "", models.EventPaymentIntentCancelled},
		{"charge expired", EventChargeExpired, "", models.EventPaymentIntentCancelled},
		{"processing", EventPaymentIntentProcessing, "", models.EventPaymentIntentProcessing},
		{"requires action", EventPaymentIntentRequiresAction, "", models.EventPaymentIntentAuthenticationRequired},
		{"amount capturable", EventPaymentIntentCapturable, "", models.EventPaymentIntentAuthorized},
		{"charge captured", EventChargeCaptured, "", models.EventPaymentIntentCaptureSuccess},
		{"charge refunded", EventChargeRefunded, "", models.EventRefundSuccess},
		{"refund updated is failure", EventChargeRefundUpdated, "", models.EventRefundFailure},
		{"dispute created", EventDisputeCreated, disputeNeedsResponse, models.EventDisputeOpened},
		{"dispute updated", EventDisputeUpdated, disputeUnderReview, models.EventDisputeChallenged},
		{"funds withdrawn", EventDisputeFundsWithdrawn, "", models.EventDisputeLost},
		{"funds reinstated", EventDisputeFundsReinstated, "", models.EventDisputeWon},
		{"dispute closed won", EventDisputeClosed, disputeWon, models.EventDisputeWon},
		{"dispute closed warning closed", EventDisputeClosed, disputeWarningClosed, models.EventDisputeWon},
		{"dispute closed charge refunded", EventDisputeClosed, disputeChargeRefunded, models.EventDisputeWon},
		{"dispute closed lost", EventDisputeClosed, disputeLost, models.EventDisputeLost},
		{"dispute closed other", EventDisputeClosed, disputeUnderReview, models.EventDisputeChallenged},
		{"unknown event", EventType("invoice.paid"), "", models.EventNotSupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyEvent(tt.eventType, tt.disputeStatus))
		})
	}
}

func TestEventStatus(t *testing.T) {
	status, ok := eventStatus(models.EventPaymentIntentSuccess)
	assert.True(t, ok)
	assert.Equal(t, models.StatusCharged, status)

	status, ok = eventStatus(models.EventPaymentIntentAuthorized)
	assert.True(t, ok)
	assert.Equal(t, models.StatusAuthorized, status)

	_, ok = eventStatus(models.EventDisputeOpened)
	assert.False(t, ok)

	_, ok = eventStatus(models.EventRefundFailure)
	assert.False(t, ok)
}

func TestParseWebhook(t *testing.T) {
	t.Run("intent succeeded", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_1",
			"type": "payment_intent.succeeded",
			"data": {"object": {"id": "pi_1", "status": "succeeded", "metadata": {"order_id": "order_1"}}}
		}`)
		result, err := parseWebhook(body)
		require.NoError(t, err)
		assert.Equal(t, models.EventPaymentIntentSuccess, result.Event)
		assert.Equal(t, "pi_1", result.ConnectorTransactionID)
		assert.Equal(t, "order_1", result.ObjectReference)
		assert.Equal(t, models.StatusCharged, result.Status)
		require.NotNil(t, result.Response)
	})

	t.Run("charge event prefers its payment intent id", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_1",
			"type": "charge.captured",
			"data": {"object": {"id": "ch_1", "payment_intent": "pi_1"}}
		}`)
		result, err := parseWebhook(body)
		require.NoError(t, err)
		assert.Equal(t, "pi_1", result.ConnectorTransactionID)
		assert.Equal(t, models.StatusCharged, result.Status)
	})

	t.Run("failure carries error envelope", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_1",
			"type": "payment_intent.payment_failed",
			"data": {"object": {"id": "pi_1", "last_payment_error": {"code": "card_declined", "message": "declined", "decline_code": "do_not_honor"}}}
		}`)
		result, err := parseWebhook(body)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailure, result.Status)
		require.NotNil(t, result.Error)
		assert.Equal(t, "card_declined", result.Error.Code)
		require.NotNil(t, result.Error.Reason)
		assert.Equal(t, "do_not_honor", *result.Error.Reason)
	})

	t.Run("failure without payload uses sentinels", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_1",
			"type": "charge.failed",
			"data": {"object": {"id": "ch_1", "payment_intent": "pi_1"}}
		}`)
		result, err := parseWebhook(body)
		require.NoError(t, err)
		require.NotNil(t, result.Error)
		assert.Equal(t, models.NoErrorCode, result.Error.Code)
		assert.Equal(t, "pi_1", result.Error.ConnectorTransactionID)
	})

	t.Run("dispute created", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_1",
			"type": "charge.dispute.created",
			"data": {"object": {
				"id": "dp_1",
				"status": "needs_response",
				"payment_intent": "pi_1",
				"amount": 1050,
				"currency": "usd",
				"reason": "fraudulent",
				"evidence_details": {"due_by": 1760000000}
			}}
		}`)
		result, err := parseWebhook(body)
		require.NoError(t, err)
		assert.Equal(t, models.EventDisputeOpened, result.Event)
		assert.Equal(t, "pi_1", result.ConnectorTransactionID)
		require.NotNil(t, result.Dispute)
		assert.Equal(t, "dp_1", result.Dispute.ConnectorDisputeID)
		assert.Equal(t, models.MinorUnit(1050), result.Dispute.AmountMinor)
		assert.Equal(t, "fraudulent", result.Dispute.ConnectorReason)
		assert.Equal(t, "1760000000", result.Dispute.ChallengeRequiredBy)
		assert.Empty(t, result.Status)
	})

	t.Run("unknown event is acked as not supported", func(t *testing.T) {
		body := []byte(`{"id": "evt_1", "type": "invoice.paid", "data": {"object": {"id": "in_1"}}}`)
		result, err := parseWebhook(body)
		require.NoError(t, err)
		assert.Equal(t, models.EventNotSupported, result.Event)
	})

	t.Run("missing type rejected", func(t *testing.T) {
		_, err := parseWebhook([]byte(`{"id": "evt_1", "data": {"object": {"id": "pi_1"}}}`))
		require.Error(t, err)
		assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindWebhookBodyDecoding))
	})

	t.Run("invalid json rejected", func(t *testing.T) {
		_, err := parseWebhook([]byte(`not json`))
		require.Error(t, err)
	})
}
