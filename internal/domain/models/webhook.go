package models

// IncomingWebhookEvent is the canonical taxonomy connector webhook codes are
// classified into. Every raw event code maps to exactly one of these;
// EventNotSupported is the total-function catch-all.
type IncomingWebhookEvent string

const (
	EventPaymentIntentSuccess        IncomingWebhookEvent = "payment_intent_success"
	EventPaymentIntentFailure        IncomingWebhookEvent = "payment_intent_failure"
	EventPaymentIntentCancelled      IncomingWebhookEvent = "payment_intent_cancelled"
	EventPaymentIntentCancelFailure  IncomingWebhookEvent = "payment_intent_cancel_failure"
	EventPaymentIntentCaptureSuccess IncomingWebhookEvent = "payment_intent_capture_success"
	EventPaymentIntentCaptureFailure IncomingWebhookEvent = "payment_intent_capture_failure"
	EventPaymentIntentProcessing     IncomingWebhookEvent = "payment_intent_processing"
	EventPaymentIntentAuthenticationRequired IncomingWebhookEvent = "payment_intent_authentication_required"
	EventPaymentIntentAuthorized     IncomingWebhookEvent = "payment_intent_authorization_success"
	EventRefundSuccess               IncomingWebhookEvent = "refund_success"
	EventRefundFailure               IncomingWebhookEvent = "refund_failure"
	EventDisputeOpened               IncomingWebhookEvent = "dispute_opened"
	EventDisputeChallenged           IncomingWebhookEvent = "dispute_challenged"
	EventDisputeWon                  IncomingWebhookEvent = "dispute_won"
	EventDisputeLost                 IncomingWebhookEvent = "dispute_lost"
	EventPayoutCreated               IncomingWebhookEvent = "payout_created"
	EventPayoutFailure               IncomingWebhookEvent = "payout_failure"
	EventPayoutExpired               IncomingWebhookEvent = "payout_expired"
	EventPayoutReversed              IncomingWebhookEvent = "payout_reversed"
	EventNotSupported                IncomingWebhookEvent = "event_not_supported"
)

// IsDisputeEvent reports whether the event belongs to the dispute
// sub-state-machine.
func (e IncomingWebhookEvent) IsDisputeEvent() bool {
	switch e {
	case EventDisputeOpened, EventDisputeChallenged, EventDisputeWon, EventDisputeLost:
		return true
	}
	return false
}

// DisputeStage tracks how far along the chargeback lifecycle an event sits.
type DisputeStage string

const (
	StagePreDispute     DisputeStage = "pre_dispute"
	StageDispute        DisputeStage = "dispute"
	StagePreArbitration DisputeStage = "pre_arbitration"
)

// DisputeData is the canonical dispute payload extracted from a webhook.
type DisputeData struct {
	AmountMinor     MinorUnit
	Currency        string
	Stage           DisputeStage
	ConnectorDisputeID string
	ConnectorReason string
	ConnectorReasonCode string
	ChallengeRequiredBy string // RFC 3339, empty when the connector omits it
}
