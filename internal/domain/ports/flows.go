package ports

import (
	"github.com/kevin07696/payment-connectors/internal/domain/models"
)

// LineItem is one order line forwarded to connectors that itemize.
type LineItem struct {
	ID          string
	Description string
	AmountMinor models.MinorUnit
	TaxMinor    models.MinorUnit
	Quantity    uint16
}

// AuthorizeRequest is the canonical input to the authorize flow.
type AuthorizeRequest struct {
	Attempt       *models.PaymentAttempt
	PaymentMethod models.PaymentMethodData
	Context       models.PaymentContext
	LineItems     []LineItem
	Charges       *models.ChargeData
	Mandate       *models.MandateReference // set when charging a stored mandate
}

// CaptureRequest captures a previously authorized attempt, possibly
// partially.
type CaptureRequest struct {
	Attempt                *models.PaymentAttempt
	ConnectorTransactionID string
	AmountMinor            models.MinorUnit
	Charges                *models.ChargeData
}

// VoidRequest cancels an authorized, uncaptured attempt.
type VoidRequest struct {
	Attempt                *models.PaymentAttempt
	ConnectorTransactionID string
}

// RefundRequest returns captured funds, possibly partially.
type RefundRequest struct {
	Attempt                *models.PaymentAttempt
	ConnectorTransactionID string
	RefundID               string
	AmountMinor            models.MinorUnit
	Reason                 string
	Charges                *models.ChargeData
}

// SyncRequest polls the connector for the current attempt state.
type SyncRequest struct {
	Attempt                *models.PaymentAttempt
	ConnectorTransactionID string
	// CaptureIDs set means the order has multiple partial captures and the
	// response must be interpreted per capture.
	CaptureIDs []string
}

// DisputeRequest addresses one dispute for accept/defend/evidence flows.
type DisputeRequest struct {
	Attempt            *models.PaymentAttempt
	ConnectorDisputeID string
	DefenseReasonCode  string
	Evidence           []EvidenceFile
}

// EvidenceFile is one document submitted when defending a dispute.
type EvidenceFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// PayoutRequest pushes funds out to a recipient.
type PayoutRequest struct {
	Attempt       *models.PaymentAttempt
	PayoutID      string
	PaymentMethod models.PaymentMethodData
	Context       models.PaymentContext
	Priority      string
}

// FlowResult is what every flow hands back: a normalized status plus either
// response data or a business-level error. A decline is a successful result
// with Status=Failure and Error set — not a Go error.
type FlowResult struct {
	Status   models.AttemptStatus
	Response *models.ResponseData
	Error    *models.ErrorResponse
}

// WebhookResult is the canonical outcome of webhook ingestion.
type WebhookResult struct {
	Event                  models.IncomingWebhookEvent
	Status                 models.AttemptStatus
	ConnectorTransactionID string
	ObjectReference        string // merchant reference carried by the webhook
	Response               *models.ResponseData
	Error                  *models.ErrorResponse
	Dispute                *models.DisputeData
}
