package stripe

import (
	"encoding/json"

	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// Stripe answers form-encoded requests with JSON.

type redirectToURL struct {
	ReturnURL string `json:"return_url"`
	URL       string `json:"url"`
}

type qrCodeNextAction struct {
	Data     string `json:"data"`
	ImageURL string `json:"image_url_png"`
}

type nextAction struct {
	Type             string            `json:"type"`
	RedirectToURL    *redirectToURL    `json:"redirect_to_url"`
	WeChatPayDisplay *qrCodeNextAction `json:"wechat_pay_display_qr_code"`
	BoletoDisplay    *struct {
		VoucherURL string `json:"hosted_voucher_url"`
		Number     string `json:"number"`
		ExpiresAt  int64  `json:"expires_at"`
	} `json:"boleto_display_details"`
	OxxoDisplay *struct {
		VoucherURL string `json:"hosted_voucher_url"`
		Number     string `json:"number"`
		ExpiresAt  int64  `json:"expires_at"`
	} `json:"oxxo_display_details"`
}

type cardDetails struct {
	NetworkTransactionID string `json:"network_transaction_id"`
	Brand                string `json:"brand"`
	Last4               string `json:"last4"`
}

type paymentMethodDetails struct {
	Type string       `json:"type"`
	Card *cardDetails `json:"card"`
}

type chargeOutcome struct {
	NetworkStatus      string `json:"network_status"`
	NetworkDeclineCode string `json:"network_decline_code"`
	Reason             string `json:"reason"`
	SellerMessage      string `json:"seller_message"`
}

type latestCharge struct {
	ID                   string                `json:"id"`
	Status               string                `json:"status"`
	PaymentMethodDetails *paymentMethodDetails `json:"payment_method_details"`
	Outcome              *chargeOutcome        `json:"outcome"`
}

type transferData struct {
	Destination string           `json:"destination"`
	Amount      models.MinorUnit `json:"amount"`
}

// paymentIntentResponse is the subset of a PaymentIntent object the
// normalizer reads.
type paymentIntentResponse struct {
	ID             string        `json:"id"`
	Status         PaymentStatus `json:"status"`
	ClientSecret   string        `json:"client_secret"`
	PaymentMethod  string        `json:"payment_method"`
	NextAction     *nextAction   `json:"next_action"`
	LatestCharge   *latestCharge `json:"latest_charge"`
	TransferData   *transferData `json:"transfer_data"`
	TransferGroup  string        `json:"transfer_group"`
	LastPaymentErr *apiError     `json:"last_payment_error"`
}

type refundResponse struct {
	ID            string       `json:"id"`
	Status        RefundStatus `json:"status"`
	PaymentIntent string       `json:"payment_intent"`
	FailureReason string       `json:"failure_reason"`
}

// apiError is Stripe's error envelope payload.
type apiError struct {
	Code          string `json:"code"`
	Type          string `json:"type"`
	Message       string `json:"message"`
	DeclineCode   string `json:"decline_code"`
	Param         string `json:"param"`
	PaymentIntent *struct {
		ID string `json:"id"`
	} `json:"payment_intent"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type disputeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// handlePaymentIntent normalizes a PaymentIntent into a FlowResult.
func handlePaymentIntent(body []byte, storesMandate bool) (*ports.FlowResult, error) {
	var intent paymentIntentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid stripe response", err)
	}

	status := paymentStatus(intent.Status)
	if status == models.StatusFailure {
		result := &ports.FlowResult{Status: status}
		if intent.LastPaymentErr != nil {
			result.Error = intentError(intent.LastPaymentErr, intent.ID, status)
		} else {
			errResp := models.NewErrorResponse("", "", 0)
			errResp.AttemptStatus = status
			errResp.ConnectorTransactionID = intent.ID
			result.Error = &errResp
		}
		return result, nil
	}

	data := &models.ResponseData{
		ConnectorTransactionID: intent.ID,
	}
	if charge := intent.LatestCharge; charge != nil {
		data.ConnectorResponseReference = charge.ID
		if details := charge.PaymentMethodDetails; details != nil && details.Card != nil {
			data.NetworkTransactionID = details.Card.NetworkTransactionID
		}
		if outcome := charge.Outcome; outcome != nil {
			data.NetworkDeclineCode = outcome.NetworkDeclineCode
			data.NetworkErrorMessage = outcome.SellerMessage
		}
	}
	// A stored payment method id doubles as the connector mandate token.
	if storesMandate && intent.PaymentMethod != "" {
		data.Mandate = &models.MandateReference{ConnectorMandateID: intent.PaymentMethod}
	}
	if intent.TransferData != nil {
		data.Charges = &models.ChargeData{
			Splits: []models.SplitItem{{
				AmountMinor: intent.TransferData.Amount,
				Account:     intent.TransferData.Destination,
				Reference:   intent.TransferGroup,
				SplitType:   models.SplitBalanceAccount,
			}},
		}
	}
	applyNextAction(data, intent.NextAction)

	return &ports.FlowResult{Status: status, Response: data}, nil
}

// applyNextAction translates next_action into redirect, QR, or voucher
// instructions. Unknown action types are ignored rather than failing the
// whole response.
func applyNextAction(data *models.ResponseData, action *nextAction) {
	if action == nil {
		return
	}
	switch {
	case action.RedirectToURL != nil:
		form := models.NewRedirectForm(action.RedirectToURL.URL, "GET", nil)
		data.Redirect = &form
	case action.WeChatPayDisplay != nil:
		data.QrCode = &models.QrCodeDetails{
			QrCodeData: action.WeChatPayDisplay.Data,
			QrCodeURL:  action.WeChatPayDisplay.ImageURL,
		}
	case action.BoletoDisplay != nil:
		data.Voucher = &models.VoucherDetails{
			Reference:   action.BoletoDisplay.Number,
			DownloadURL: action.BoletoDisplay.VoucherURL,
		}
	case action.OxxoDisplay != nil:
		data.Voucher = &models.VoucherDetails{
			Reference:   action.OxxoDisplay.Number,
			DownloadURL: action.OxxoDisplay.VoucherURL,
		}
	}
}

func handleRefund(body []byte) (*ports.FlowResult, error) {
	var refund refundResponse
	if err := json.Unmarshal(body, &refund); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid stripe response", err)
	}
	status := refundStatus(refund.Status)
	if status == models.StatusFailure {
		errResp := models.NewErrorResponse(string(refund.Status), refund.FailureReason, 0)
		errResp.AttemptStatus = status
		errResp.ConnectorTransactionID = refund.PaymentIntent
		return &ports.FlowResult{Status: status, Error: &errResp}, nil
	}
	return &ports.FlowResult{
		Status: status,
		Response: &models.ResponseData{
			ConnectorTransactionID:     refund.PaymentIntent,
			ConnectorResponseReference: refund.ID,
		},
	}, nil
}

func handleDispute(body []byte) (*ports.FlowResult, error) {
	var dispute disputeResponse
	if err := json.Unmarshal(body, &dispute); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid stripe response", err)
	}
	return &ports.FlowResult{
		Status:   models.StatusPending,
		Response: &models.ResponseData{ConnectorTransactionID: dispute.ID},
	}, nil
}

// intentError builds the canonical error from Stripe's error payload,
// applying the sentinel fallbacks for absent code/message.
func intentError(apiErr *apiError, transactionID string, status models.AttemptStatus) *models.ErrorResponse {
	errResp := models.NewErrorResponse(apiErr.Code, apiErr.Message, 0)
	errResp.AttemptStatus = status
	errResp.ConnectorTransactionID = transactionID
	if apiErr.DeclineCode != "" {
		reason := apiErr.DeclineCode
		errResp.Reason = &reason
	}
	return &errResp
}

// handleErrorBody normalizes a non-2xx response. HTTP-level failures still
// come back as a FlowResult so declines and validation errors flow through
// the same path as business declines.
func handleErrorBody(body []byte, statusCode int) (*ports.FlowResult, error) {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid stripe response", err)
	}
	errResp := models.NewErrorResponse(envelope.Error.Code, envelope.Error.Message, statusCode)
	errResp.AttemptStatus = models.StatusFailure
	if envelope.Error.PaymentIntent != nil {
		errResp.ConnectorTransactionID = envelope.Error.PaymentIntent.ID
	}
	if envelope.Error.DeclineCode != "" {
		reason := envelope.Error.DeclineCode
		errResp.Reason = &reason
	}
	return &ports.FlowResult{Status: models.StatusFailure, Error: &errResp}, nil
}
