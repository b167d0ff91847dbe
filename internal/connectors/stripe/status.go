package stripe

import (
	"github.com/kevin07696/payment-connectors/internal/domain/models"
)

// PaymentStatus is Stripe's PaymentIntent status vocabulary.
type PaymentStatus string

const (
	PaymentSucceeded              PaymentStatus = "succeeded"
	PaymentProcessing             PaymentStatus = "processing"
	PaymentRequiresCustomerAction PaymentStatus = "requires_action"
	PaymentRequiresPaymentMethod  PaymentStatus = "requires_payment_method"
	PaymentRequiresConfirmation   PaymentStatus = "requires_confirmation"
	PaymentRequiresCapture        PaymentStatus = "requires_capture"
	PaymentCanceled               PaymentStatus = "canceled"
	PaymentPending                PaymentStatus = "pending"
	PaymentFailed                 PaymentStatus = "payment_failed"
)

// paymentStatus normalizes a PaymentIntent status. Unlike Adyen, Stripe has
// no capture-method duality here: requires_capture and succeeded are distinct
// wire states.
func paymentStatus(status PaymentStatus) models.AttemptStatus {
	switch status {
	case PaymentSucceeded:
		return models.StatusCharged
	case PaymentProcessing:
		return models.StatusAuthorizing
	case PaymentRequiresCustomerAction:
		return models.StatusAuthenticationPending
	case PaymentRequiresPaymentMethod:
		return models.StatusPaymentMethodAwaited
	case PaymentRequiresConfirmation:
		return models.StatusConfirmationAwaited
	case PaymentRequiresCapture:
		return models.StatusAuthorized
	case PaymentCanceled:
		return models.StatusVoided
	case PaymentPending:
		return models.StatusPending
	case PaymentFailed:
		return models.StatusFailure
	}
	return models.StatusPending
}

// RefundStatus is Stripe's refund status vocabulary.
type RefundStatus string

const (
	RefundSucceeded RefundStatus = "succeeded"
	RefundPending   RefundStatus = "pending"
	RefundFailed    RefundStatus = "failed"
	RefundCanceled  RefundStatus = "canceled"
)

func refundStatus(status RefundStatus) models.AttemptStatus {
	switch status {
	case RefundSucceeded:
		return models.StatusCharged
	case RefundPending:
		return models.StatusPending
	case RefundFailed, RefundCanceled:
		return models.StatusFailure
	}
	return models.StatusPending
}
