package models

import (
	"time"
)

// AttemptStatus represents the canonical state of a payment attempt.
// Every connector status vocabulary is normalized into this machine.
type AttemptStatus string

const (
	StatusPaymentMethodAwaited     AttemptStatus = "payment_method_awaited"
	StatusConfirmationAwaited      AttemptStatus = "confirmation_awaited"
	StatusAuthorizing              AttemptStatus = "authorizing"
	StatusAuthenticationPending    AttemptStatus = "authentication_pending"
	StatusAuthenticationSuccessful AttemptStatus = "authentication_successful"
	StatusPending                  AttemptStatus = "pending"
	StatusAuthorized               AttemptStatus = "authorized"
	StatusCharged                  AttemptStatus = "charged"
	StatusCaptureFailed            AttemptStatus = "capture_failed"
	StatusVoided                   AttemptStatus = "voided"
	StatusVoidFailed               AttemptStatus = "void_failed"
	StatusFailure                  AttemptStatus = "failure"
)

// statusRank orders the state machine. Terminal states rank highest so a
// later webhook can never walk an attempt backwards.
var statusRank = map[AttemptStatus]int{
	StatusPaymentMethodAwaited:     0,
	StatusConfirmationAwaited:      1,
	StatusAuthorizing:              2,
	StatusAuthenticationPending:    3,
	StatusAuthenticationSuccessful: 4,
	StatusPending:                  5,
	StatusAuthorized:               6,
	StatusCaptureFailed:            7,
	StatusVoidFailed:               7,
	StatusCharged:                  8,
	StatusVoided:                   8,
	StatusFailure:                  8,
}

// IsTerminal reports whether no further transition is allowed.
func (s AttemptStatus) IsTerminal() bool {
	switch s {
	case StatusCharged, StatusVoided, StatusFailure:
		return true
	}
	return false
}

// EventSource identifies which writer produced a status update. Sync and
// capture responses are more authoritative than a generic webhook when the
// state machine alone cannot break a tie.
type EventSource string

const (
	SourceAuthorizeResponse EventSource = "authorize_response"
	SourceCaptureResponse   EventSource = "capture_response"
	SourceSyncResponse      EventSource = "sync_response"
	SourceWebhook           EventSource = "webhook"
)

var sourceSpecificity = map[EventSource]int{
	SourceWebhook:           0,
	SourceAuthorizeResponse: 1,
	SourceCaptureResponse:   2,
	SourceSyncResponse:      2,
}

// MergeStatus applies the cross-source merge policy: a transition is accepted
// if it advances the state machine, or if the incoming source is at least as
// specific and the current state is non-terminal. Terminal states are never
// overwritten. Returns the resulting status and whether the incoming one won.
func MergeStatus(current, incoming AttemptStatus, source EventSource) (AttemptStatus, bool) {
	if current == "" {
		return incoming, true
	}
	if current.IsTerminal() {
		return current, false
	}
	if statusRank[incoming] > statusRank[current] {
		return incoming, true
	}
	if statusRank[incoming] == statusRank[current] && incoming != current {
		// Same rank, different state (e.g. CaptureFailed vs VoidFailed):
		// let the more specific source decide.
		if sourceSpecificity[source] >= sourceSpecificity[SourceAuthorizeResponse] {
			return incoming, true
		}
	}
	return current, false
}

// CaptureMethod controls whether authorization and capture are one step.
type CaptureMethod string

const (
	CaptureAutomatic      CaptureMethod = "automatic"
	CaptureManual         CaptureMethod = "manual"
	CaptureManualMultiple CaptureMethod = "manual_multiple"
)

// IsManual reports whether capture is a separate, merchant-triggered step.
func (c CaptureMethod) IsManual() bool {
	return c == CaptureManual || c == CaptureManualMultiple
}

// AuthenticationType is the requested 3DS treatment for an attempt.
type AuthenticationType string

const (
	AuthTypeNoThreeDS AuthenticationType = "no_three_ds"
	AuthTypeThreeDS   AuthenticationType = "three_ds"
)

// FutureUsage declares whether the payment method should be stored for
// later off-session charges.
type FutureUsage string

const (
	FutureUsageOnSession  FutureUsage = "on_session"
	FutureUsageOffSession FutureUsage = "off_session"
)

// PaymentAttempt is one execution of a payment operation against one
// connector. The canonical status is written by the synchronous response,
// by webhooks, and by sync polling; all three go through MergeStatus.
type PaymentAttempt struct {
	ID              string
	MerchantID      string
	CustomerID      string
	OrderID         string
	Connector       string
	AmountMinor     MinorUnit
	Currency        string
	Status          AttemptStatus
	CaptureMethod   CaptureMethod
	AuthType        AuthenticationType
	SetupFutureUsage FutureUsage
	OffSession      bool
	MandateID       string // set when charging an existing mandate
	ConnectorTransactionID string
	ReturnURL       string
	StatementDescriptor string
	Metadata        map[string]string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsMandatePayment reports whether this attempt either charges an existing
// mandate or sets one up.
func (a *PaymentAttempt) IsMandatePayment() bool {
	return a.MandateID != "" || a.SetupFutureUsage == FutureUsageOffSession
}

// ShopperReference is the stable per-customer reference sent to connectors
// that key stored payment methods on it.
func (a *PaymentAttempt) ShopperReference() string {
	if a.CustomerID == "" {
		return ""
	}
	return a.MerchantID + "_" + a.CustomerID
}
