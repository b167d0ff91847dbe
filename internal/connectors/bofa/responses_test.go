package bofa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/payment-connectors/internal/domain/models"
)

func TestPaymentStatusNormalization(t *testing.T) {
	tests := []struct {
		status      PaymentStatus
		autoCapture bool
		expected    models.AttemptStatus
	}{
		{PaymentAuthorized, true, models.StatusCharged},
		{PaymentAuthorized, false, models.StatusAuthorized},
		{PaymentPartialAuthorized, true, models.StatusAuthorized},
		{PaymentAuthorizedPendingReview, false, models.StatusPending},
		{PaymentPending, false, models.StatusPending},
		{PaymentSucceeded, false, models.StatusCharged},
		{PaymentTransmitted, false, models.StatusCharged},
		{PaymentVoided, false, models.StatusVoided},
		{PaymentReversed, false, models.StatusVoided},
		{PaymentCancelled, false, models.StatusVoided},
		{PaymentDeclined, false, models.StatusFailure},
		{PaymentInvalidRequest, false, models.StatusFailure},
		{PaymentRejected, false, models.StatusFailure},
		{PaymentServerError, false, models.StatusFailure},
		{PaymentAuthorizedRiskDeclined, false, models.StatusFailure},
		{PaymentStatus("UNKNOWN"), false, models.StatusPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, paymentStatus(tt.status, tt.autoCapture), string(tt.status))
	}
}

func TestIsFailure(t *testing.T) {
	assert.True(t, isFailure(PaymentDeclined))
	assert.True(t, isFailure(PaymentAuthorizedRiskDeclined))
	assert.False(t, isFailure(PaymentAuthorized))
	assert.False(t, isFailure(PaymentPending))
}

func TestRefundStatusNormalization(t *testing.T) {
	assert.Equal(t, models.StatusCharged, refundStatus(RefundSucceeded))
	assert.Equal(t, models.StatusCharged, refundStatus(RefundTransmitted))
	assert.Equal(t, models.StatusPending, refundStatus(RefundPending))
	assert.Equal(t, models.StatusFailure, refundStatus(RefundFailed))
	assert.Equal(t, models.StatusFailure, refundStatus(RefundVoided))
}

func TestHandlePaymentsResponse(t *testing.T) {
	t.Run("authorized with token and network transaction id", func(t *testing.T) {
		body := []byte(`{
			"id": "tx_1",
			"status": "AUTHORIZED",
			"clientReferenceInformation": {"code": "att_1"},
			"processorInformation": {"networkTransactionId": "016153570198200"},
			"tokenInformation": {"paymentInstrument": {"id": "7010000000016241111"}}
		}`)
		result, err := handlePaymentsResponse(body, 201, false)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAuthorized, result.Status)
		require.NotNil(t, result.Response)
		assert.Equal(t, "tx_1", result.Response.ConnectorTransactionID)
		assert.Equal(t, "att_1", result.Response.ConnectorResponseReference)
		assert.Equal(t, "016153570198200", result.Response.NetworkTransactionID)
		require.NotNil(t, result.Response.Mandate)
		assert.Equal(t, "7010000000016241111", result.Response.Mandate.ConnectorMandateID)
	})

	t.Run("declined composes reason from message and details", func(t *testing.T) {
		body := []byte(`{
			"id": "tx_1",
			"status": "INVALID_REQUEST",
			"errorInformation": {
				"reason": "INVALID_DATA",
				"message": "Declined - Invalid account number",
				"details": [
					{"field": "cardNumber", "reason": "INVALID_DATA"},
					{"field": "expirationYear", "reason": "INVALID_DATA"}
				]
			}
		}`)
		result, err := handlePaymentsResponse(body, 400, true)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailure, result.Status)
		require.NotNil(t, result.Error)
		assert.Equal(t, "INVALID_DATA", result.Error.Code)
		assert.Equal(t, "Declined - Invalid account number", result.Error.Message)
		require.NotNil(t, result.Error.Reason)
		assert.Equal(t,
			"Declined - Invalid account number, detailed_error_information: cardNumber : INVALID_DATA, expirationYear : INVALID_DATA",
			*result.Error.Reason)
		assert.Equal(t, "tx_1", result.Error.ConnectorTransactionID)
	})

	t.Run("risk decline appends avs annotation", func(t *testing.T) {
		body := []byte(`{
			"id": "tx_1",
			"status": "AUTHORIZED_RISK_DECLINED",
			"errorInformation": {"reason": "DECISION_PROFILE_REJECT", "message": "Soft decline"},
			"processorInformation": {"avs": {"code": "N", "codeRaw": "N"}}
		}`)
		result, err := handlePaymentsResponse(body, 200, true)
		require.NoError(t, err)
		require.NotNil(t, result.Error)
		require.NotNil(t, result.Error.Reason)
		assert.Equal(t, "Soft decline, avs_message: N", *result.Error.Reason)
	})

	t.Run("avs only consulted on risk decline", func(t *testing.T) {
		body := []byte(`{
			"id": "tx_1",
			"status": "DECLINED",
			"errorInformation": {"reason": "PROCESSOR_DECLINED", "message": "Decline"},
			"processorInformation": {"avs": {"code": "N", "codeRaw": "N"}}
		}`)
		result, err := handlePaymentsResponse(body, 200, true)
		require.NoError(t, err)
		require.NotNil(t, result.Error.Reason)
		assert.Equal(t, "Decline", *result.Error.Reason)
	})

	t.Run("decline without error information uses sentinels", func(t *testing.T) {
		result, err := handlePaymentsResponse([]byte(`{"id": "tx_1", "status": "DECLINED"}`), 200, true)
		require.NoError(t, err)
		require.NotNil(t, result.Error)
		assert.Equal(t, models.NoErrorCode, result.Error.Code)
		assert.Equal(t, models.NoErrorMessage, result.Error.Message)
		assert.Nil(t, result.Error.Reason)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := handlePaymentsResponse([]byte(`not json`), 200, true)
		require.Error(t, err)
	})
}

func TestHandleRefundResponse(t *testing.T) {
	result, err := handleRefundResponse([]byte(`{"id": "ref_tx_1", "status": "PENDING"}`))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, result.Status)
	assert.Equal(t, "ref_tx_1", result.Response.ConnectorTransactionID)

	result, err = handleRefundResponse([]byte(`{"id": "ref_tx_1", "status": "FAILED"}`))
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailure, result.Status)
	require.NotNil(t, result.Error)
	assert.Equal(t, "FAILED", result.Error.Code)
}

func TestHandleErrorBody(t *testing.T) {
	errResp := handleErrorBody([]byte(`{
		"reason": "MISSING_FIELD",
		"message": "Declined - The request is missing one or more fields",
		"details": [{"field": "paymentInformation.card.number", "reason": "MISSING_FIELD"}]
	}`), 400)
	assert.Equal(t, "MISSING_FIELD", errResp.Code)
	assert.Equal(t, models.StatusFailure, errResp.AttemptStatus)
	require.NotNil(t, errResp.Reason)
	assert.Equal(t,
		"Declined - The request is missing one or more fields, detailed_error_information: paymentInformation.card.number : MISSING_FIELD",
		*errResp.Reason)

	unparseable := handleErrorBody([]byte(`<html>`), 502)
	assert.Equal(t, models.NoErrorCode, unparseable.Code)
	assert.Equal(t, models.NoErrorMessage, unparseable.Message)
	assert.Equal(t, 502, unparseable.StatusCode)
}
