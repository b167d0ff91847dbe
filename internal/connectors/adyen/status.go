package adyen

import (
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// Status is Adyen's resultCode vocabulary.
type Status string

const (
	StatusAuthenticationFinished    Status = "AuthenticationFinished"
	StatusAuthenticationNotRequired Status = "AuthenticationNotRequired"
	StatusAuthorised                Status = "Authorised"
	StatusCancelled                 Status = "Cancelled"
	StatusChallengeShopper          Status = "ChallengeShopper"
	StatusError                     Status = "Error"
	StatusPending                   Status = "Pending"
	StatusReceived                  Status = "Received"
	StatusRedirectShopper           Status = "RedirectShopper"
	StatusRefused                   Status = "Refused"
	StatusPresentToShopper          Status = "PresentToShopper"
	StatusPayoutConfirmReceived     Status = "[payout-confirm-received]"
	StatusPayoutDeclineReceived     Status = "[payout-decline-received]"
	StatusPayoutSubmitReceived      Status = "[payout-submit-received]"
)

// paymentStatus normalizes a resultCode. The Authorised arm is the one place
// the manual/automatic capture duality lives; Pending branches on the
// payment method type because Pix's "pending" means the shopper still has to
// authenticate out-of-band.
func paymentStatus(status Status, isManualCapture bool, pmt models.PaymentMethodType) models.AttemptStatus {
	switch status {
	case StatusAuthenticationFinished:
		return models.StatusAuthenticationSuccessful
	case StatusAuthenticationNotRequired, StatusReceived:
		return models.StatusPending
	case StatusAuthorised:
		if isManualCapture {
			return models.StatusAuthorized
		}
		// Under automatic capture Authorised is the final state.
		return models.StatusCharged
	case StatusCancelled:
		return models.StatusVoided
	case StatusChallengeShopper, StatusRedirectShopper, StatusPresentToShopper:
		return models.StatusAuthenticationPending
	case StatusError, StatusRefused:
		return models.StatusFailure
	case StatusPending:
		if pmt == models.PMTPix {
			return models.StatusAuthenticationPending
		}
		return models.StatusPending
	case StatusPayoutConfirmReceived:
		return models.StatusAuthorizing
	case StatusPayoutSubmitReceived:
		return models.StatusPending
	case StatusPayoutDeclineReceived:
		return models.StatusVoided
	}
	return models.StatusPending
}

// isFailureStatus reports whether the resultCode means a business-level
// decline, which travels back as status=Failure plus an ErrorResponse.
// Cancelled is not a failure: a cancellation that lands maps to Voided.
func isFailureStatus(status Status) bool {
	return status == StatusError || status == StatusRefused
}

// WebhookStatus is the attempt-level state derived from a webhook's event
// code plus success flag before normalization.
type WebhookStatus string

const (
	WebhookAuthorised          WebhookStatus = "authorised"
	WebhookAuthorisationFailed WebhookStatus = "authorisation_failed"
	WebhookCancelled           WebhookStatus = "cancelled"
	WebhookCancelFailed        WebhookStatus = "cancel_failed"
	WebhookCaptured            WebhookStatus = "captured"
	WebhookCaptureFailed       WebhookStatus = "capture_failed"
	WebhookReversed            WebhookStatus = "reversed"
	WebhookUnexpected          WebhookStatus = "unexpected"
)

// webhookAttemptStatus normalizes a webhook-derived status. Reversed and
// unexpected events have no attempt-level meaning and are rejected so the
// caller can route them elsewhere.
func webhookAttemptStatus(status WebhookStatus, isManualCapture bool) (models.AttemptStatus, error) {
	switch status {
	case WebhookAuthorised:
		if isManualCapture {
			return models.StatusAuthorized, nil
		}
		return models.StatusCharged, nil
	case WebhookAuthorisationFailed:
		return models.StatusFailure, nil
	case WebhookCancelled:
		return models.StatusVoided, nil
	case WebhookCancelFailed:
		return models.StatusVoidFailed, nil
	case WebhookCaptured:
		return models.StatusCharged, nil
	case WebhookCaptureFailed:
		return models.StatusCaptureFailed, nil
	}
	return "", pkgerrors.NewWebhookBodyDecodingFailed(nil)
}
