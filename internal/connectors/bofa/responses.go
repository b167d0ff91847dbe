package bofa

import (
	"encoding/json"

	"github.com/kevin07696/payment-connectors/internal/connectors"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

type errorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type errorInformation struct {
	Reason  string        `json:"reason"`
	Message string        `json:"message"`
	Details []errorDetail `json:"details"`
}

type avsInformation struct {
	Code    string `json:"code"`
	CodeRaw string `json:"codeRaw"`
}

type processorInformation struct {
	Avs                  *avsInformation `json:"avs"`
	NetworkTransactionID string          `json:"networkTransactionId"`
	ApprovalCode         string          `json:"approvalCode"`
	ResponseCode         string          `json:"responseCode"`
}

type tokenInformation struct {
	PaymentInstrument *struct {
		ID string `json:"id"`
	} `json:"paymentInstrument"`
}

// paymentsResponse is the transaction resource returned by payments,
// captures, voids, and refunds.
type paymentsResponse struct {
	ID                         string                      `json:"id"`
	Status                     PaymentStatus               `json:"status"`
	ErrorInformation           *errorInformation           `json:"errorInformation"`
	ProcessorInformation       *processorInformation       `json:"processorInformation"`
	TokenInformation           *tokenInformation           `json:"tokenInformation"`
	ClientReferenceInformation *clientReferenceInformation `json:"clientReferenceInformation"`
}

type refundResponse struct {
	ID     string       `json:"id"`
	Status RefundStatus `json:"status"`
}

// errorBody is the platform's standalone 4xx error shape.
type errorBody struct {
	Reason  string        `json:"reason"`
	Message string        `json:"message"`
	Details []errorDetail `json:"details"`
}

// detailFragments converts the wire detail list into the canonical pairs.
func detailFragments(details []errorDetail) []connectors.FieldDetail {
	out := make([]connectors.FieldDetail, 0, len(details))
	for _, d := range details {
		out = append(out, connectors.FieldDetail{Field: d.Field, Reason: d.Reason})
	}
	return out
}

// failureError composes the canonical error for a declined transaction. The
// reason stitches together the processor message, field-level detail, and
// the AVS annotation for risk declines, in that fixed order.
func failureError(resp *paymentsResponse, statusCode int, attemptStatus models.AttemptStatus) *models.ErrorResponse {
	var code, message string
	var detailed, avsMessage *string
	if info := resp.ErrorInformation; info != nil {
		code = info.Reason
		message = info.Message
		detailed = connectors.JoinFieldDetails(detailFragments(info.Details))
	}
	if resp.Status == PaymentAuthorizedRiskDeclined {
		if proc := resp.ProcessorInformation; proc != nil && proc.Avs != nil && proc.Avs.CodeRaw != "" {
			raw := proc.Avs.CodeRaw
			avsMessage = &raw
		}
	}
	errResp := models.NewErrorResponse(code, message, statusCode)
	errResp.AttemptStatus = attemptStatus
	errResp.ConnectorTransactionID = resp.ID
	var messagePtr *string
	if message != "" {
		messagePtr = &message
	}
	errResp.Reason = connectors.ComposeReason(messagePtr, detailed, avsMessage)
	return &errResp
}

// handlePaymentsResponse normalizes a transaction resource into a FlowResult.
func handlePaymentsResponse(body []byte, statusCode int, autoCapture bool) (*ports.FlowResult, error) {
	var resp paymentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid payments response", err)
	}
	status := paymentStatus(resp.Status, autoCapture)
	if isFailure(resp.Status) {
		return &ports.FlowResult{
			Status: status,
			Error:  failureError(&resp, statusCode, status),
		}, nil
	}
	data := &models.ResponseData{ConnectorTransactionID: resp.ID}
	if ref := resp.ClientReferenceInformation; ref != nil {
		data.ConnectorResponseReference = ref.Code
	}
	if proc := resp.ProcessorInformation; proc != nil {
		data.NetworkTransactionID = proc.NetworkTransactionID
	}
	if token := resp.TokenInformation; token != nil && token.PaymentInstrument != nil {
		data.Mandate = &models.MandateReference{ConnectorMandateID: token.PaymentInstrument.ID}
	}
	return &ports.FlowResult{Status: status, Response: data}, nil
}

func handleRefundResponse(body []byte) (*ports.FlowResult, error) {
	var resp refundResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid refund response", err)
	}
	status := refundStatus(resp.Status)
	if status == models.StatusFailure {
		errResp := models.NewErrorResponse(string(resp.Status), "", 0)
		errResp.AttemptStatus = status
		errResp.ConnectorTransactionID = resp.ID
		return &ports.FlowResult{Status: status, Error: &errResp}, nil
	}
	return &ports.FlowResult{
		Status:   status,
		Response: &models.ResponseData{ConnectorTransactionID: resp.ID},
	}, nil
}

// handleErrorBody normalizes a standalone 4xx error payload.
func handleErrorBody(body []byte, statusCode int) *models.ErrorResponse {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		errResp := models.NewErrorResponse("", "", statusCode)
		errResp.AttemptStatus = models.StatusFailure
		return &errResp
	}
	errResp := models.NewErrorResponse(parsed.Reason, parsed.Message, statusCode)
	errResp.AttemptStatus = models.StatusFailure
	var messagePtr *string
	if parsed.Message != "" {
		messagePtr = &parsed.Message
	}
	errResp.Reason = connectors.ComposeReason(messagePtr, connectors.JoinFieldDetails(detailFragments(parsed.Details)), nil)
	return &errResp
}
