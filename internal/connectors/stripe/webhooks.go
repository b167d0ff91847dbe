package stripe

import (
	"encoding/json"
	"strconv"

	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// EventType is Stripe's webhook event vocabulary. Unlike Adyen there is no
// separate success flag: the event type alone carries the outcome.
type EventType string

const (
	EventPaymentIntentSucceeded      EventType = "payment_intent.succeeded"
	EventPaymentIntentFailed         EventType = "payment_intent.payment_failed"
	EventPaymentIntentCanceled       EventType = "payment_intent.canceled"
	EventPaymentIntentProcessing     EventType = "payment_intent.processing"
	EventPaymentIntentRequiresAction EventType = "payment_intent.requires_action"
	EventPaymentIntentCapturable     EventType = "payment_intent.amount_capturable_updated"
	EventPaymentIntentPartialFunding EventType = "payment_intent.partially_funded"
	EventChargeSucceeded             EventType = "charge.succeeded"
	EventChargeFailed                EventType = "charge.failed"
	EventChargeCaptured              EventType = "charge.captured"
	EventChargeExpired               EventType = "charge.expired"
	EventChargeRefunded              EventType = "charge.refunded"
	EventChargeRefundUpdated         EventType = "charge.refund.updated"
	EventDisputeCreated              EventType = "charge.dispute.created"
	EventDisputeClosed               EventType = "charge.dispute.closed"
	EventDisputeUpdated              EventType = "charge.dispute.updated"
	EventDisputeFundsWithdrawn       EventType = "charge.dispute.funds_withdrawn"
	EventDisputeFundsReinstated      EventType = "charge.dispute.funds_reinstated"
)

// stripeDisputeStatus is the dispute object's own status field, consulted when
// a dispute event's outcome is not implied by the event type.
type stripeDisputeStatus string

const (
	disputeWarningNeedsResponse stripeDisputeStatus = "warning_needs_response"
	disputeWarningUnderReview   stripeDisputeStatus = "warning_under_review"
	disputeWarningClosed        stripeDisputeStatus = "warning_closed"
	disputeNeedsResponse        stripeDisputeStatus = "needs_response"
	disputeUnderReview          stripeDisputeStatus = "under_review"
	disputeChargeRefunded       stripeDisputeStatus = "charge_refunded"
	disputeWon                  stripeDisputeStatus = "won"
	disputeLost                 stripeDisputeStatus = "lost"
)

// classifyEvent maps an event type (plus the dispute status for
// charge.dispute.closed) onto the canonical taxonomy.
func classifyEvent(eventType EventType, disputeStatus stripeDisputeStatus) models.IncomingWebhookEvent {
	switch eventType {
	case EventPaymentIntentSucceeded:
		return models.EventPaymentIntentSuccess
	case EventPaymentIntentFailed, EventChargeFailed:
		return models.EventPaymentIntentFailure
	case EventPaymentIntentCanceled, EventChargeExpired:
		return models.EventPaymentIntentCancelled
	case EventPaymentIntentProcessing:
		return models.EventPaymentIntentProcessing
	case EventPaymentIntentRequiresAction:
		return models.EventPaymentIntentAuthenticationRequired
	case EventPaymentIntentCapturable:
		return models.EventPaymentIntentAuthorized
	case EventChargeCaptured:
		return models.EventPaymentIntentCaptureSuccess
	case EventChargeRefunded:
		return models.EventRefundSuccess
	case EventChargeRefundUpdated:
		return models.EventRefundFailure
	case EventDisputeCreated:
		return models.EventDisputeOpened
	case EventDisputeUpdated:
		return models.EventDisputeChallenged
	case EventDisputeFundsWithdrawn:
		return models.EventDisputeLost
	case EventDisputeFundsReinstated:
		return models.EventDisputeWon
	case EventDisputeClosed:
		switch disputeStatus {
		case disputeWon, disputeWarningClosed, disputeChargeRefunded:
			return models.EventDisputeWon
		case disputeLost:
			return models.EventDisputeLost
		default:
			return models.EventDisputeChallenged
		}
	}
	return models.EventNotSupported
}

// eventStatus derives the attempt-level status for events that carry one.
// Dispute and refund-failure events have none.
func eventStatus(event models.IncomingWebhookEvent) (models.AttemptStatus, bool) {
	switch event {
	case models.EventPaymentIntentSuccess, models.EventPaymentIntentCaptureSuccess:
		return models.StatusCharged, true
	case models.EventPaymentIntentFailure:
		return models.StatusFailure, true
	case models.EventPaymentIntentCancelled:
		return models.StatusVoided, true
	case models.EventPaymentIntentProcessing:
		return models.StatusAuthorizing, true
	case models.EventPaymentIntentAuthenticationRequired:
		return models.StatusAuthenticationPending, true
	case models.EventPaymentIntentAuthorized:
		return models.StatusAuthorized, true
	}
	return "", false
}

// webhookObject is the union of the fields the classifier needs from the
// payment_intent, charge, and dispute shapes that ride data.object.
type webhookObject struct {
	ID             string              `json:"id"`
	Status         string              `json:"status"`
	Amount         models.MinorUnit    `json:"amount"`
	Currency       string              `json:"currency"`
	PaymentIntent  string              `json:"payment_intent"`
	Reason         string              `json:"reason"`
	LastPaymentErr *apiError           `json:"last_payment_error"`
	Metadata       map[string]string   `json:"metadata"`
	EvidenceDetail *struct {
		DueBy int64 `json:"due_by"`
	} `json:"evidence_details"`
}

type webhookEnvelope struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`
	Data struct {
		Object webhookObject `json:"object"`
	} `json:"data"`
}

// parseWebhook classifies and normalizes one inbound Stripe event.
func parseWebhook(body []byte) (*ports.WebhookResult, error) {
	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, pkgerrors.NewWebhookBodyDecodingFailed(err)
	}
	if envelope.Type == "" {
		return nil, pkgerrors.NewWebhookBodyDecodingFailed(nil)
	}
	object := envelope.Data.Object

	event := classifyEvent(envelope.Type, stripeDisputeStatus(object.Status))
	result := &ports.WebhookResult{
		Event:                  event,
		ConnectorTransactionID: object.ID,
		ObjectReference:        object.Metadata["order_id"],
	}
	// Charge and dispute objects reference their intent; the intent id is the
	// attempt-level transaction id.
	if object.PaymentIntent != "" {
		result.ConnectorTransactionID = object.PaymentIntent
	}

	if event.IsDisputeEvent() {
		dispute := &models.DisputeData{
			AmountMinor:        object.Amount,
			Currency:           object.Currency,
			Stage:              models.StageDispute,
			ConnectorDisputeID: object.ID,
			ConnectorReason:    object.Reason,
		}
		if object.EvidenceDetail != nil && object.EvidenceDetail.DueBy != 0 {
			dispute.ChallengeRequiredBy = strconv.FormatInt(object.EvidenceDetail.DueBy, 10)
		}
		result.Dispute = dispute
		return result, nil
	}

	if status, ok := eventStatus(event); ok {
		result.Status = status
		if status == models.StatusFailure {
			var errResp models.ErrorResponse
			if object.LastPaymentErr != nil {
				errResp = *intentError(object.LastPaymentErr, result.ConnectorTransactionID, status)
			} else {
				errResp = models.NewErrorResponse("", "", 0)
				errResp.AttemptStatus = status
				errResp.ConnectorTransactionID = result.ConnectorTransactionID
			}
			result.Error = &errResp
			return result, nil
		}
	}

	result.Response = &models.ResponseData{
		ConnectorTransactionID:     result.ConnectorTransactionID,
		ConnectorResponseReference: object.ID,
	}
	return result, nil
}
