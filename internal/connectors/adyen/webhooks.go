package adyen

import (
	"encoding/json"

	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// EventCode is Adyen's webhook event vocabulary.
type EventCode string

const (
	EventAuthorisation            EventCode = "AUTHORISATION"
	EventRefund                   EventCode = "REFUND"
	EventCancelOrRefund           EventCode = "CANCEL_OR_REFUND"
	EventCancellation             EventCode = "CANCELLATION"
	EventCapture                  EventCode = "CAPTURE"
	EventCaptureFailed            EventCode = "CAPTURE_FAILED"
	EventRefundFailed             EventCode = "REFUND_FAILED"
	EventRefundReversed           EventCode = "REFUND_REVERSED"
	EventNotificationOfChargeback EventCode = "NOTIFICATION_OF_CHARGEBACK"
	EventChargeback               EventCode = "CHARGEBACK"
	EventChargebackReversed       EventCode = "CHARGEBACK_REVERSED"
	EventSecondChargeback         EventCode = "SECOND_CHARGEBACK"
	EventPrearbitrationWon        EventCode = "PREARBITRATION_WON"
	EventPrearbitrationLost       EventCode = "PREARBITRATION_LOST"
	EventPayoutThirdparty         EventCode = "PAYOUT_THIRDPARTY"
	EventPayoutDecline            EventCode = "PAYOUT_DECLINE"
	EventPayoutExpire             EventCode = "PAYOUT_EXPIRE"
	EventPayoutReversed           EventCode = "PAIDOUT_REVERSED"
)

// DisputeStatus is the dispute sub-status Adyen reports alongside
// chargeback events.
type DisputeStatus string

const (
	DisputeUndefended DisputeStatus = "Undefended"
	DisputePending    DisputeStatus = "Pending"
	DisputeLost       DisputeStatus = "Lost"
	DisputeAccepted   DisputeStatus = "Accepted"
	DisputeWon        DisputeStatus = "Won"
)

func isSuccess(flag string) bool {
	return flag == "true"
}

// classifyEvent maps (event code, success flag, dispute sub-status) to the
// canonical taxonomy. Total: unknown codes land on EventNotSupported, and an
// unmapped dispute sub-status defaults to the safer non-terminal
// classification instead of an optimistic terminal one.
func classifyEvent(code EventCode, success string, disputeStatus DisputeStatus) models.IncomingWebhookEvent {
	switch code {
	case EventAuthorisation:
		if isSuccess(success) {
			return models.EventPaymentIntentSuccess
		}
		return models.EventPaymentIntentFailure
	case EventRefund, EventCancelOrRefund:
		if isSuccess(success) {
			return models.EventRefundSuccess
		}
		return models.EventRefundFailure
	case EventCancellation:
		if isSuccess(success) {
			return models.EventPaymentIntentCancelled
		}
		return models.EventPaymentIntentCancelFailure
	case EventCapture:
		if isSuccess(success) {
			return models.EventPaymentIntentCaptureSuccess
		}
		return models.EventPaymentIntentCaptureFailure
	case EventCaptureFailed:
		return models.EventPaymentIntentCaptureFailure
	case EventRefundFailed, EventRefundReversed:
		return models.EventRefundFailure
	case EventNotificationOfChargeback:
		return models.EventDisputeOpened
	case EventChargeback:
		switch disputeStatus {
		case DisputeWon:
			return models.EventDisputeWon
		case DisputeLost, "":
			return models.EventDisputeLost
		default:
			return models.EventDisputeOpened
		}
	case EventChargebackReversed:
		if disputeStatus == DisputePending {
			return models.EventDisputeChallenged
		}
		return models.EventDisputeWon
	case EventSecondChargeback, EventPrearbitrationLost:
		return models.EventDisputeLost
	case EventPrearbitrationWon:
		if disputeStatus == DisputePending {
			return models.EventDisputeOpened
		}
		return models.EventDisputeWon
	case EventPayoutThirdparty:
		return models.EventPayoutCreated
	case EventPayoutDecline:
		return models.EventPayoutFailure
	case EventPayoutExpire:
		return models.EventPayoutExpired
	case EventPayoutReversed:
		return models.EventPayoutReversed
	}
	return models.EventNotSupported
}

// disputeStage places a chargeback event in the dispute lifecycle.
func disputeStage(code EventCode) models.DisputeStage {
	switch code {
	case EventNotificationOfChargeback:
		return models.StagePreDispute
	case EventSecondChargeback, EventPrearbitrationWon, EventPrearbitrationLost:
		return models.StagePreArbitration
	}
	return models.StageDispute
}

// webhookStatus derives the attempt-level status from a transaction or
// modification event plus its success flag. Events with no attempt meaning
// report WebhookUnexpected.
func webhookStatus(code EventCode, success string) WebhookStatus {
	switch code {
	case EventAuthorisation:
		if isSuccess(success) {
			return WebhookAuthorised
		}
		return WebhookAuthorisationFailed
	case EventCancellation:
		if isSuccess(success) {
			return WebhookCancelled
		}
		return WebhookCancelFailed
	case EventCapture:
		if isSuccess(success) {
			return WebhookCaptured
		}
		return WebhookCaptureFailed
	case EventCaptureFailed:
		return WebhookCaptureFailed
	case EventRefundReversed:
		return WebhookReversed
	}
	return WebhookUnexpected
}

// notificationAdditionalData is the additionalData block on notifications.
type notificationAdditionalData struct {
	HmacSignature            string        `json:"hmacSignature"`
	DisputeStatus            DisputeStatus `json:"disputeStatus"`
	ChargebackReasonCode     string        `json:"chargebackReasonCode"`
	DefensePeriodEndsAt      string        `json:"defensePeriodEndsAt"`
	RecurringDetailReference string        `json:"recurring.recurringDetailReference"`
	NetworkTxReference       string        `json:"networkTxReference"`
	RefusalReasonRaw         string        `json:"refusalReasonRaw"`
	RefusalCodeRaw           string        `json:"refusalCodeRaw"`
}

type notificationAmount struct {
	Value    models.MinorUnit `json:"value"`
	Currency string           `json:"currency"`
}

// notificationItem is one NotificationRequestItem.
type notificationItem struct {
	AdditionalData      notificationAdditionalData `json:"additionalData"`
	Amount              notificationAmount         `json:"amount"`
	OriginalReference   string                     `json:"originalReference"`
	PspReference        string                     `json:"pspReference"`
	EventCode           EventCode                  `json:"eventCode"`
	MerchantAccountCode string                     `json:"merchantAccountCode"`
	MerchantReference   string                     `json:"merchantReference"`
	Success             string                     `json:"success"`
	Reason              string                     `json:"reason"`
	EventDate           string                     `json:"eventDate"`
}

type notificationEnvelope struct {
	Live              string `json:"live"`
	NotificationItems []struct {
		NotificationRequestItem notificationItem `json:"NotificationRequestItem"`
	} `json:"notificationItems"`
}

// parseWebhook classifies and normalizes the first notification item of an
// inbound webhook body.
func parseWebhook(body []byte) (*ports.WebhookResult, error) {
	var envelope notificationEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, pkgerrors.NewWebhookBodyDecodingFailed(err)
	}
	if len(envelope.NotificationItems) == 0 {
		return nil, pkgerrors.NewWebhookBodyDecodingFailed(nil)
	}
	item := envelope.NotificationItems[0].NotificationRequestItem

	event := classifyEvent(item.EventCode, item.Success, item.AdditionalData.DisputeStatus)
	result := &ports.WebhookResult{
		Event:                  event,
		ConnectorTransactionID: item.PspReference,
		ObjectReference:        item.MerchantReference,
	}
	if item.OriginalReference != "" {
		result.ConnectorTransactionID = item.OriginalReference
	}

	if event.IsDisputeEvent() {
		result.Dispute = &models.DisputeData{
			AmountMinor:         item.Amount.Value,
			Currency:            item.Amount.Currency,
			Stage:               disputeStage(item.EventCode),
			ConnectorDisputeID:  item.PspReference,
			ConnectorReason:     item.Reason,
			ConnectorReasonCode: item.AdditionalData.ChargebackReasonCode,
			ChallengeRequiredBy: item.AdditionalData.DefensePeriodEndsAt,
		}
		return result, nil
	}

	status := webhookStatus(item.EventCode, item.Success)
	if status != WebhookUnexpected && status != WebhookReversed {
		// Manual-vs-automatic capture is unknowable from the notification
		// alone; a Charged outcome for automatic capture is resolved by the
		// merge against stored attempt state.
		attemptStatus, err := webhookAttemptStatus(status, false)
		if err != nil {
			return nil, err
		}
		result.Status = attemptStatus
		if attemptStatus == models.StatusFailure || attemptStatus == models.StatusCaptureFailed ||
			attemptStatus == models.StatusVoidFailed {
			// Adyen omits the refusal code on failed Authorisation
			// notifications; the sentinels keep Code/Message populated.
			errResp := models.NewErrorResponse(item.AdditionalData.RefusalCodeRaw, item.AdditionalData.RefusalReasonRaw, 0)
			errResp.AttemptStatus = attemptStatus
			errResp.ConnectorTransactionID = result.ConnectorTransactionID
			if item.Reason != "" {
				errResp.Reason = &item.Reason
			}
			result.Error = &errResp
			return result, nil
		}
	}

	data := &models.ResponseData{
		ConnectorTransactionID:     result.ConnectorTransactionID,
		ConnectorResponseReference: item.MerchantReference,
		NetworkTransactionID:       item.AdditionalData.NetworkTxReference,
	}
	if ref := item.AdditionalData.RecurringDetailReference; ref != "" {
		data.Mandate = &models.MandateReference{ConnectorMandateID: ref}
	}
	result.Response = data
	return result, nil
}
