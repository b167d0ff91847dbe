package adyen

import (
	"encoding/json"
	"fmt"

	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// paymentResponse is the plain synchronous /payments response.
type paymentResponse struct {
	PspReference      string              `json:"pspReference"`
	ResultCode        Status              `json:"resultCode"`
	Amount            *Amount             `json:"amount"`
	MerchantReference string              `json:"merchantReference"`
	RefusalReason     string              `json:"refusalReason"`
	RefusalReasonCode string              `json:"refusalReasonCode"`
	AdditionalData    *responseAdditional `json:"additionalData"`
	Splits            []splitData         `json:"splits"`
	Store             string              `json:"store"`
}

// responseAdditional is the additionalData block on responses and webhooks.
type responseAdditional struct {
	RecurringDetailReference string `json:"recurring.recurringDetailReference"`
	NetworkTxReference       string `json:"networkTxReference"`
	RefusalReasonRaw         string `json:"refusalReasonRaw"`
	RefusalCodeRaw           string `json:"refusalCodeRaw"`
}

// redirectAction is the action object on redirect-pending responses.
type redirectAction struct {
	Type   string            `json:"type"`
	URL    string            `json:"url"`
	Method string            `json:"method"`
	Data   map[string]string `json:"data"`
	PaymentMethodType string `json:"paymentMethodType"`
}

type redirectionResponse struct {
	ResultCode    Status          `json:"resultCode"`
	Action        *redirectAction `json:"action"`
	RefusalReason string          `json:"refusalReason"`
	RefusalReasonCode string      `json:"refusalReasonCode"`
	PspReference  string          `json:"pspReference"`
}

// voucherAction is the action object on present-to-shopper responses.
type voucherAction struct {
	Type              string `json:"type"`
	PaymentMethodType string `json:"paymentMethodType"`
	Reference         string `json:"reference"`
	ExpiresAt         string `json:"expiresAt"`
	DownloadURL       string `json:"downloadUrl"`
	InstructionsURL   string `json:"instructionsUrl"`
	InitialAmount     *Amount `json:"initialAmount"`
	TotalAmount       *Amount `json:"totalAmount"`
}

type presentToShopperResponse struct {
	PspReference      string         `json:"pspReference"`
	ResultCode        Status         `json:"resultCode"`
	Action            *voucherAction `json:"action"`
	MerchantReference string         `json:"merchantReference"`
	RefusalReason     string         `json:"refusalReason"`
	RefusalReasonCode string         `json:"refusalReasonCode"`
}

// qrAction is the action object on QR-code responses.
type qrAction struct {
	Type              string `json:"type"`
	PaymentMethodType string `json:"paymentMethodType"`
	QrCodeData        string `json:"qrCodeData"`
	QrCodeURL         string `json:"qrCodeUrl"`
	ExpiresAt         string `json:"expiresAt"`
}

type qrCodeResponse struct {
	ResultCode     Status              `json:"resultCode"`
	Action         *qrAction           `json:"action"`
	RefusalReason  string              `json:"refusalReason"`
	RefusalReasonCode string           `json:"refusalReasonCode"`
	PspReference   string              `json:"pspReference"`
	AdditionalData *responseAdditional `json:"additionalData"`
}

// redirectionErrorResponse is the shape Adyen returns when a redirect flow
// dies before an action is produced.
type redirectionErrorResponse struct {
	ResultCode    Status `json:"resultCode"`
	RefusalReason string `json:"refusalReason"`
}

// webhookSyncResponse is a webhook-delivered resource interpreted during a
// sync flow (Adyen has no payment-query endpoint; sync consumes the stored
// notification).
type webhookSyncResponse struct {
	TransactionID     string        `json:"transactionId"`
	PaymentReference  string        `json:"paymentReference"`
	Status            WebhookStatus `json:"status"`
	Amount            *Amount       `json:"amount"`
	EventCode         EventCode     `json:"eventCode"`
	RefusalReason     string        `json:"refusalReason"`
	RefusalReasonCode string        `json:"refusalReasonCode"`
}

// parsedResponse is the tagged result of structural matching; exactly one
// field is set.
type parsedResponse struct {
	Response         *paymentResponse
	PresentToShopper *presentToShopperResponse
	QrCode           *qrCodeResponse
	Redirection      *redirectionResponse
	RedirectionError *redirectionErrorResponse
	Webhook          *webhookSyncResponse
}

// parsePaymentResponse resolves the untagged response union by trying shapes
// in priority order and accepting the first structurally valid match:
//
//	1. present-to-shopper  (action.type == "voucher")
//	2. QR code             (action.qrCodeData present)
//	3. redirection         (action.url present)
//	4. webhook-delivered   (eventCode present)
//	5. plain response      (pspReference + resultCode)
//	6. redirection error   (resultCode + refusalReason, nothing else)
//
// The order matters: shapes higher up are supersets of the plain response.
func parsePaymentResponse(body []byte) (*parsedResponse, error) {
	var probe struct {
		PspReference string          `json:"pspReference"`
		ResultCode   Status          `json:"resultCode"`
		EventCode    string          `json:"eventCode"`
		Action       json.RawMessage `json:"action"`
		RefusalReason string         `json:"refusalReason"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid response json", err)
	}

	if len(probe.Action) > 0 {
		var action struct {
			Type       string `json:"type"`
			URL        string `json:"url"`
			QrCodeData string `json:"qrCodeData"`
		}
		if err := json.Unmarshal(probe.Action, &action); err != nil {
			return nil, pkgerrors.NewResponseHandlingFailed("invalid action object", err)
		}
		switch {
		case action.Type == "voucher":
			var out presentToShopperResponse
			if err := json.Unmarshal(body, &out); err != nil {
				return nil, pkgerrors.NewResponseHandlingFailed("invalid voucher response", err)
			}
			return &parsedResponse{PresentToShopper: &out}, nil
		case action.QrCodeData != "":
			var out qrCodeResponse
			if err := json.Unmarshal(body, &out); err != nil {
				return nil, pkgerrors.NewResponseHandlingFailed("invalid qr response", err)
			}
			return &parsedResponse{QrCode: &out}, nil
		case action.URL != "":
			var out redirectionResponse
			if err := json.Unmarshal(body, &out); err != nil {
				return nil, pkgerrors.NewResponseHandlingFailed("invalid redirect response", err)
			}
			return &parsedResponse{Redirection: &out}, nil
		}
	}

	if probe.EventCode != "" {
		var out webhookSyncResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, pkgerrors.NewResponseHandlingFailed("invalid webhook response", err)
		}
		return &parsedResponse{Webhook: &out}, nil
	}

	if probe.PspReference != "" && probe.ResultCode != "" {
		var out paymentResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, pkgerrors.NewResponseHandlingFailed("invalid payment response", err)
		}
		return &parsedResponse{Response: &out}, nil
	}

	if probe.ResultCode != "" {
		var out redirectionErrorResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, pkgerrors.NewResponseHandlingFailed("invalid error response", err)
		}
		return &parsedResponse{RedirectionError: &out}, nil
	}

	return nil, pkgerrors.NewResponseHandlingFailed("response matched no known shape", nil)
}

// refusalError builds the canonical error envelope from a refusal, applying
// the sentinel fallbacks.
func refusalError(code, reason string, statusCode int, pspReference string, status models.AttemptStatus) *models.ErrorResponse {
	errResp := models.NewErrorResponse(code, reason, statusCode)
	errResp.Reason = nil
	if reason != "" {
		errResp.Reason = &reason
	}
	errResp.AttemptStatus = status
	errResp.ConnectorTransactionID = pspReference
	return &errResp
}

// handlePaymentResponse converts one parsed response into a FlowResult.
func handlePaymentResponse(parsed *parsedResponse, httpStatus int, isManualCapture bool, pmt models.PaymentMethodType) (*ports.FlowResult, error) {
	switch {
	case parsed.Response != nil:
		return handlePlainResponse(parsed.Response, httpStatus, isManualCapture, pmt), nil
	case parsed.PresentToShopper != nil:
		return handlePresentToShopper(parsed.PresentToShopper, httpStatus, isManualCapture, pmt), nil
	case parsed.QrCode != nil:
		return handleQrCode(parsed.QrCode, httpStatus, isManualCapture, pmt), nil
	case parsed.Redirection != nil:
		return handleRedirection(parsed.Redirection, httpStatus, isManualCapture, pmt), nil
	case parsed.RedirectionError != nil:
		status := paymentStatus(parsed.RedirectionError.ResultCode, isManualCapture, pmt)
		return &ports.FlowResult{
			Status: models.StatusFailure,
			Error:  refusalError(models.NoErrorCode, parsed.RedirectionError.RefusalReason, httpStatus, "", status),
		}, nil
	case parsed.Webhook != nil:
		return handleWebhookSync(parsed.Webhook, httpStatus, isManualCapture)
	}
	return nil, pkgerrors.NewResponseHandlingFailed("empty parsed response", nil)
}

func handlePlainResponse(resp *paymentResponse, httpStatus int, isManualCapture bool, pmt models.PaymentMethodType) *ports.FlowResult {
	status := paymentStatus(resp.ResultCode, isManualCapture, pmt)
	result := &ports.FlowResult{Status: status}
	if isFailureStatus(resp.ResultCode) || status == models.StatusFailure {
		result.Status = status
		result.Error = refusalError(resp.RefusalReasonCode, resp.RefusalReason, httpStatus, resp.PspReference, status)
		if resp.AdditionalData != nil {
			result.Error.IssuerErrorCode = resp.AdditionalData.RefusalCodeRaw
			result.Error.IssuerErrorMessage = resp.AdditionalData.RefusalReasonRaw
		}
		return result
	}
	data := &models.ResponseData{
		ConnectorTransactionID:     resp.PspReference,
		ConnectorResponseReference: resp.MerchantReference,
	}
	if resp.AdditionalData != nil {
		if ref := resp.AdditionalData.RecurringDetailReference; ref != "" {
			data.Mandate = &models.MandateReference{ConnectorMandateID: ref}
		}
		data.NetworkTransactionID = resp.AdditionalData.NetworkTxReference
	}
	if len(resp.Splits) > 0 || resp.Store != "" {
		data.Charges = chargesFromSplits(resp.Splits, resp.Store)
	}
	result.Response = data
	return result
}

func handlePresentToShopper(resp *presentToShopperResponse, httpStatus int, isManualCapture bool, pmt models.PaymentMethodType) *ports.FlowResult {
	status := paymentStatus(resp.ResultCode, isManualCapture, pmt)
	if isFailureStatus(resp.ResultCode) {
		return &ports.FlowResult{
			Status: status,
			Error:  refusalError(resp.RefusalReasonCode, resp.RefusalReason, httpStatus, resp.PspReference, status),
		}
	}
	data := &models.ResponseData{
		ConnectorTransactionID:     resp.PspReference,
		ConnectorResponseReference: resp.MerchantReference,
	}
	if action := resp.Action; action != nil {
		data.Voucher = presentToShopperMetadata(action)
	}
	return &ports.FlowResult{Status: status, Response: data}
}

// presentToShopperMetadata derives voucher metadata per payment-method type.
// Types with no defined metadata produce nil rather than an error; every
// known type is listed so a new one is a visible decision.
func presentToShopperMetadata(action *voucherAction) *models.VoucherDetails {
	switch action.PaymentMethodType {
	case "boletobancario", "oxxo", "doku_alfamart", "doku_indomaret",
		"econtext_seven_eleven", "econtext_stores":
		return &models.VoucherDetails{
			Reference:    action.Reference,
			ExpiresAt:    action.ExpiresAt,
			DownloadURL:  action.DownloadURL,
			Instructions: action.InstructionsURL,
		}
	}
	return nil
}

func handleQrCode(resp *qrCodeResponse, httpStatus int, isManualCapture bool, pmt models.PaymentMethodType) *ports.FlowResult {
	status := paymentStatus(resp.ResultCode, isManualCapture, pmt)
	if isFailureStatus(resp.ResultCode) {
		return &ports.FlowResult{
			Status: status,
			Error:  refusalError(resp.RefusalReasonCode, resp.RefusalReason, httpStatus, resp.PspReference, status),
		}
	}
	data := &models.ResponseData{ConnectorTransactionID: resp.PspReference}
	if action := resp.Action; action != nil {
		data.QrCode = qrCodeMetadata(action)
	}
	return &ports.FlowResult{Status: status, Response: data}
}

// qrCodeMetadata derives wait-screen metadata per payment-method type; only
// QR-based methods carry any.
func qrCodeMetadata(action *qrAction) *models.QrCodeDetails {
	switch action.PaymentMethodType {
	case "pix", "swish", "wechatpayWeb", "duitnow", "promptpay":
		return &models.QrCodeDetails{
			QrCodeData: action.QrCodeData,
			QrCodeURL:  action.QrCodeURL,
			ExpiresAt:  action.ExpiresAt,
		}
	}
	return nil
}

func handleRedirection(resp *redirectionResponse, httpStatus int, isManualCapture bool, pmt models.PaymentMethodType) *ports.FlowResult {
	status := paymentStatus(resp.ResultCode, isManualCapture, pmt)
	if isFailureStatus(resp.ResultCode) {
		return &ports.FlowResult{
			Status: status,
			Error:  refusalError(resp.RefusalReasonCode, resp.RefusalReason, httpStatus, resp.PspReference, status),
		}
	}
	data := &models.ResponseData{ConnectorTransactionID: resp.PspReference}
	if action := resp.Action; action != nil {
		method := action.Method
		if method == "" {
			method = "GET"
		}
		form := models.NewRedirectForm(action.URL, method, action.Data)
		data.Redirect = &form
	}
	return &ports.FlowResult{Status: status, Response: data}
}

func handleWebhookSync(resp *webhookSyncResponse, httpStatus int, isManualCapture bool) (*ports.FlowResult, error) {
	status, err := webhookAttemptStatus(resp.Status, isManualCapture)
	if err != nil {
		return nil, err
	}
	result := &ports.FlowResult{Status: status}
	if status == models.StatusFailure || status == models.StatusCaptureFailed || status == models.StatusVoidFailed {
		result.Error = refusalError(resp.RefusalReasonCode, resp.RefusalReason, httpStatus, resp.TransactionID, status)
		return result, nil
	}
	result.Response = &models.ResponseData{
		ConnectorTransactionID:     resp.TransactionID,
		ConnectorResponseReference: resp.PaymentReference,
	}
	return result, nil
}

// handleMultiCaptureSync reinterprets a webhook-delivered response for an
// order with multiple partial captures: the result is a captures list keyed
// by connector capture id, not a single transaction response.
func handleMultiCaptureSync(resp *webhookSyncResponse, captureIDs []string, isManualCapture bool) (*ports.FlowResult, error) {
	status, err := webhookAttemptStatus(resp.Status, isManualCapture)
	if err != nil {
		return nil, err
	}
	captures := make([]models.CaptureData, 0, len(captureIDs))
	for _, id := range captureIDs {
		capture := models.CaptureData{ConnectorCaptureID: id, Status: models.StatusPending}
		if id == resp.TransactionID {
			capture.Status = status
			if resp.Amount != nil {
				capture.AmountMinor = resp.Amount.Value
				capture.Currency = resp.Amount.Currency
			}
		}
		captures = append(captures, capture)
	}
	return &ports.FlowResult{
		Status: status,
		Response: &models.ResponseData{
			ConnectorTransactionID: resp.PaymentReference,
			Captures:               captures,
		},
	}, nil
}

// modificationResponse is the capture/cancel/refund acknowledgement.
type modificationResponse struct {
	MerchantAccount string `json:"merchantAccount"`
	PspReference    string `json:"pspReference"`
	PaymentPspReference string `json:"paymentPspReference"`
	Reference       string `json:"reference"`
	Status          string `json:"status"`
}

// handleModificationResponse parses the received-style acknowledgement for
// capture, void, and refund. Adyen confirms the outcome by webhook; the
// synchronous reply only moves the attempt to pendingStatus.
func handleModificationResponse(body []byte, pendingStatus models.AttemptStatus) (*ports.FlowResult, error) {
	var resp modificationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid modification response", err)
	}
	if resp.PspReference == "" {
		return nil, pkgerrors.NewResponseHandlingFailed("modification response missing pspReference", nil)
	}
	return &ports.FlowResult{
		Status: pendingStatus,
		Response: &models.ResponseData{
			ConnectorTransactionID:     resp.PspReference,
			ConnectorResponseReference: resp.Reference,
		},
	}, nil
}

// errorBody is Adyen's structured API error.
type errorBody struct {
	Status       int    `json:"status"`
	ErrorCode    string `json:"errorCode"`
	Message      string `json:"message"`
	ErrorType    string `json:"errorType"`
	PspReference string `json:"pspReference"`
}

// handleErrorBody converts a non-2xx API error into the canonical envelope.
func handleErrorBody(body []byte, httpStatus int) *models.ErrorResponse {
	var apiErr errorBody
	if err := json.Unmarshal(body, &apiErr); err != nil {
		errResp := models.NewErrorResponse("", fmt.Sprintf("http %d", httpStatus), httpStatus)
		return &errResp
	}
	errResp := models.NewErrorResponse(apiErr.ErrorCode, apiErr.Message, httpStatus)
	errResp.ConnectorTransactionID = apiErr.PspReference
	return &errResp
}

func chargesFromSplits(splits []splitData, store string) *models.ChargeData {
	charges := &models.ChargeData{Store: store}
	for _, split := range splits {
		item := models.SplitItem{
			SplitType:   split.SplitType,
			Account:     split.Account,
			Reference:   split.Reference,
			Description: split.Description,
		}
		if split.Amount != nil {
			item.AmountMinor = split.Amount.Value
		}
		charges.Splits = append(charges.Splits, item)
	}
	return charges
}
