package bofa

import (
	"github.com/kevin07696/payment-connectors/internal/domain/models"
)

// PaymentStatus is the platform's transaction status vocabulary.
type PaymentStatus string

const (
	PaymentAuthorized              PaymentStatus = "AUTHORIZED"
	PaymentPartialAuthorized       PaymentStatus = "PARTIAL_AUTHORIZED"
	PaymentAuthorizedPendingReview PaymentStatus = "AUTHORIZED_PENDING_REVIEW"
	PaymentAuthorizedRiskDeclined  PaymentStatus = "AUTHORIZED_RISK_DECLINED"
	PaymentPending                 PaymentStatus = "PENDING"
	PaymentSucceeded               PaymentStatus = "SUCCEEDED"
	PaymentTransmitted             PaymentStatus = "TRANSMITTED"
	PaymentDeclined                PaymentStatus = "DECLINED"
	PaymentInvalidRequest          PaymentStatus = "INVALID_REQUEST"
	PaymentRejected                PaymentStatus = "REJECTED"
	PaymentServerError             PaymentStatus = "SERVER_ERROR"
	PaymentReversed                PaymentStatus = "REVERSED"
	PaymentVoided                  PaymentStatus = "VOIDED"
	PaymentCancelled               PaymentStatus = "CANCELLED"
)

// paymentStatus normalizes a platform status. AUTHORIZED collapses to
// Charged when the request asked for automatic capture, mirroring the
// single-message auth-and-capture the platform performs.
func paymentStatus(status PaymentStatus, autoCapture bool) models.AttemptStatus {
	switch status {
	case PaymentAuthorized:
		if autoCapture {
			return models.StatusCharged
		}
		return models.StatusAuthorized
	case PaymentPartialAuthorized:
		return models.StatusAuthorized
	case PaymentAuthorizedPendingReview, PaymentPending:
		return models.StatusPending
	case PaymentSucceeded, PaymentTransmitted:
		return models.StatusCharged
	case PaymentVoided, PaymentReversed, PaymentCancelled:
		return models.StatusVoided
	case PaymentDeclined, PaymentInvalidRequest, PaymentRejected, PaymentServerError,
		PaymentAuthorizedRiskDeclined:
		return models.StatusFailure
	}
	return models.StatusPending
}

// isFailure reports whether the status carries an error payload worth
// composing into an ErrorResponse.
func isFailure(status PaymentStatus) bool {
	switch status {
	case PaymentDeclined, PaymentInvalidRequest, PaymentRejected, PaymentServerError,
		PaymentAuthorizedRiskDeclined:
		return true
	}
	return false
}

// RefundStatus is the refund resource's status vocabulary.
type RefundStatus string

const (
	RefundSucceeded   RefundStatus = "SUCCEEDED"
	RefundTransmitted RefundStatus = "TRANSMITTED"
	RefundPending     RefundStatus = "PENDING"
	RefundFailed      RefundStatus = "FAILED"
	RefundVoided      RefundStatus = "VOIDED"
)

func refundStatus(status RefundStatus) models.AttemptStatus {
	switch status {
	case RefundSucceeded, RefundTransmitted:
		return models.StatusCharged
	case RefundPending:
		return models.StatusPending
	case RefundFailed, RefundVoided:
		return models.StatusFailure
	}
	return models.StatusPending
}
