// Package payment exposes the payment flow API.
package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	gatewaysvc "github.com/kevin07696/payment-connectors/internal/services/gateway"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// Handler serves the payment flow endpoints:
//
//	POST /payments                      authorize
//	POST /payments/{id}/capture        capture
//	POST /payments/{id}/void           void
//	POST /payments/{id}/refund         refund
//	POST /payments/{id}/sync           sync
type Handler struct {
	service  *gatewaysvc.Service
	attempts ports.AttemptStore
	logger   *zap.Logger
}

// NewHandler creates a payment handler.
func NewHandler(service *gatewaysvc.Service, attempts ports.AttemptStore, logger *zap.Logger) *Handler {
	return &Handler{service: service, attempts: attempts, logger: logger}
}

// Register mounts the handler on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/payments", h.authorize)
	mux.HandleFunc("/payments/", h.subresource)
}

type addressDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

func (a *addressDTO) toModel() *models.Address {
	if a == nil {
		return nil
	}
	return &models.Address{
		FirstName: a.FirstName, LastName: a.LastName,
		Line1: a.Line1, Line2: a.Line2,
		City: a.City, State: a.State, Zip: a.Zip, Country: a.Country,
	}
}

type paymentMethodDTO struct {
	Type string `json:"type"`

	Card *struct {
		Number     string `json:"number"`
		ExpMonth   string `json:"exp_month"`
		ExpYear    string `json:"exp_year"`
		HolderName string `json:"holder_name"`
		CVC        string `json:"cvc"`
		Network    string `json:"network"`
	} `json:"card,omitempty"`

	Wallet *struct {
		Kind  string `json:"kind"`
		Token string `json:"token"`
	} `json:"wallet,omitempty"`

	PayLater *struct {
		Kind string `json:"kind"`
	} `json:"pay_later,omitempty"`

	BankRedirect *struct {
		Kind     string `json:"kind"`
		BankName string `json:"bank_name"`
	} `json:"bank_redirect,omitempty"`

	BankDebit *struct {
		Kind          string `json:"kind"`
		AccountNumber string `json:"account_number"`
		RoutingNumber string `json:"routing_number"`
		SortCode      string `json:"sort_code"`
		BSBNumber     string `json:"bsb_number"`
		IBAN          string `json:"iban"`
	} `json:"bank_debit,omitempty"`

	Voucher *struct {
		Kind                 string `json:"kind"`
		SocialSecurityNumber string `json:"social_security_number"`
	} `json:"voucher,omitempty"`
}

func (p *paymentMethodDTO) toModel(mandateID string) models.PaymentMethodData {
	var data models.PaymentMethodData
	switch {
	case p.Card != nil:
		data.Card = &models.Card{
			Number: p.Card.Number, ExpMonth: p.Card.ExpMonth, ExpYear: p.Card.ExpYear,
			HolderName: p.Card.HolderName, CVC: p.Card.CVC,
			Network: models.CardNetwork(p.Card.Network),
		}
	case p.Wallet != nil:
		data.Wallet = &models.WalletData{Kind: models.WalletKind(p.Wallet.Kind), Token: p.Wallet.Token}
	case p.PayLater != nil:
		data.PayLater = &models.PayLaterData{Kind: models.PayLaterKind(p.PayLater.Kind)}
	case p.BankRedirect != nil:
		data.BankRedirect = &models.BankRedirectData{
			Kind: models.BankRedirectKind(p.BankRedirect.Kind), BankName: p.BankRedirect.BankName,
		}
	case p.BankDebit != nil:
		data.BankDebit = &models.BankDebitData{
			Kind:          models.BankDebitKind(p.BankDebit.Kind),
			AccountNumber: p.BankDebit.AccountNumber,
			RoutingNumber: p.BankDebit.RoutingNumber,
			SortCode:      p.BankDebit.SortCode,
			BSBNumber:     p.BankDebit.BSBNumber,
			IBAN:          p.BankDebit.IBAN,
		}
	case p.Voucher != nil:
		data.Voucher = &models.VoucherData{
			Kind:                 models.VoucherKind(p.Voucher.Kind),
			SocialSecurityNumber: p.Voucher.SocialSecurityNumber,
		}
	case mandateID != "":
		data.MandatePayment = &models.MandatePaymentData{}
	}
	return data
}

type authorizeRequestDTO struct {
	MerchantID          string            `json:"merchant_id"`
	CustomerID          string            `json:"customer_id"`
	OrderID             string            `json:"order_id"`
	Connector           string            `json:"connector"`
	AmountMinor         int64             `json:"amount_minor"`
	Currency            string            `json:"currency"`
	CaptureMethod       string            `json:"capture_method"`
	AuthType            string            `json:"authentication_type"`
	SetupFutureUsage    string            `json:"setup_future_usage"`
	OffSession          bool              `json:"off_session"`
	MandateID           string            `json:"mandate_id"`
	ReturnURL           string            `json:"return_url"`
	StatementDescriptor string            `json:"statement_descriptor"`
	Metadata            map[string]string `json:"metadata"`

	PaymentMethod     paymentMethodDTO `json:"payment_method"`
	PaymentMethodType string           `json:"payment_method_type"`
	Email             string           `json:"email"`
	Billing           *addressDTO      `json:"billing"`
	Shipping          *addressDTO      `json:"shipping"`
}

type flowResultDTO struct {
	AttemptID              string               `json:"attempt_id,omitempty"`
	Status                 string               `json:"status"`
	ConnectorTransactionID string               `json:"connector_transaction_id,omitempty"`
	Redirect               *models.RedirectForm `json:"redirect,omitempty"`
	MandateID              string               `json:"mandate_id,omitempty"`
	ErrorCode              string               `json:"error_code,omitempty"`
	ErrorMessage           string               `json:"error_message,omitempty"`
	ErrorReason            *string              `json:"error_reason,omitempty"`
}

func resultDTO(attemptID string, result *ports.FlowResult) flowResultDTO {
	dto := flowResultDTO{AttemptID: attemptID, Status: string(result.Status)}
	if data := result.Response; data != nil {
		dto.ConnectorTransactionID = data.ConnectorTransactionID
		dto.Redirect = data.Redirect
		if data.Mandate != nil {
			dto.MandateID = data.Mandate.ConnectorMandateID
		}
	}
	if errResp := result.Error; errResp != nil {
		dto.ErrorCode = errResp.Code
		dto.ErrorMessage = errResp.Message
		dto.ErrorReason = errResp.Reason
		if dto.ConnectorTransactionID == "" {
			dto.ConnectorTransactionID = errResp.ConnectorTransactionID
		}
	}
	return dto
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var dto authorizeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if dto.MerchantID == "" || dto.Connector == "" || dto.AmountMinor <= 0 || dto.Currency == "" {
		http.Error(w, "merchant_id, connector, amount_minor, and currency are required", http.StatusBadRequest)
		return
	}

	attempt := &models.PaymentAttempt{
		MerchantID:          dto.MerchantID,
		CustomerID:          dto.CustomerID,
		OrderID:             dto.OrderID,
		Connector:           dto.Connector,
		AmountMinor:         models.MinorUnit(dto.AmountMinor),
		Currency:            dto.Currency,
		CaptureMethod:       models.CaptureMethod(dto.CaptureMethod),
		AuthType:            models.AuthenticationType(dto.AuthType),
		SetupFutureUsage:    models.FutureUsage(dto.SetupFutureUsage),
		OffSession:          dto.OffSession,
		MandateID:           dto.MandateID,
		ReturnURL:           dto.ReturnURL,
		StatementDescriptor: dto.StatementDescriptor,
		Metadata:            dto.Metadata,
	}
	req := &ports.AuthorizeRequest{
		Attempt:       attempt,
		PaymentMethod: dto.PaymentMethod.toModel(dto.MandateID),
		Context: models.PaymentContext{
			Billing:           dto.Billing.toModel(),
			Shipping:          dto.Shipping.toModel(),
			Email:             dto.Email,
			PaymentMethodType: models.PaymentMethodType(dto.PaymentMethodType),
		},
	}
	if dto.MandateID != "" {
		req.Mandate = &models.MandateReference{ConnectorMandateID: dto.MandateID}
	}

	result, err := h.service.Authorize(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeResult(w, attempt.ID, result)
}

type modifyRequestDTO struct {
	AmountMinor int64  `json:"amount_minor"`
	RefundID    string `json:"refund_id"`
	Reason      string `json:"reason"`
}

func (h *Handler) subresource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/payments/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	attemptID, action := parts[0], parts[1]

	snapshot, err := h.attempts.Read(r.Context(), attemptID)
	if err != nil {
		http.Error(w, "attempt not found", http.StatusNotFound)
		return
	}
	attempt := snapshot.Attempt

	var dto modifyRequestDTO
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	amount := models.MinorUnit(dto.AmountMinor)
	if amount == 0 {
		amount = attempt.AmountMinor
	}

	var result *ports.FlowResult
	switch action {
	case "capture":
		result, err = h.service.Capture(r.Context(), &ports.CaptureRequest{
			Attempt:                attempt,
			ConnectorTransactionID: attempt.ConnectorTransactionID,
			AmountMinor:            amount,
		})
	case "void":
		result, err = h.service.Void(r.Context(), &ports.VoidRequest{
			Attempt:                attempt,
			ConnectorTransactionID: attempt.ConnectorTransactionID,
		})
	case "refund":
		result, err = h.service.Refund(r.Context(), &ports.RefundRequest{
			Attempt:                attempt,
			ConnectorTransactionID: attempt.ConnectorTransactionID,
			RefundID:               dto.RefundID,
			AmountMinor:            amount,
			Reason:                 dto.Reason,
		})
	case "sync":
		result, err = h.service.Sync(r.Context(), &ports.SyncRequest{
			Attempt:                attempt,
			ConnectorTransactionID: attempt.ConnectorTransactionID,
		})
	default:
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeResult(w, attemptID, result)
}

func (h *Handler) writeResult(w http.ResponseWriter, attemptID string, result *ports.FlowResult) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resultDTO(attemptID, result))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.logger.Warn("payment flow failed", zap.Error(err))
	var connErr *pkgerrors.ConnectorError
	if errors.As(err, &connErr) {
		status := http.StatusBadRequest
		switch connErr.Kind {
		case pkgerrors.KindFlowNotSupported, pkgerrors.KindNotSupported, pkgerrors.KindNotImplemented:
			status = http.StatusUnprocessableEntity
		case pkgerrors.KindInvalidConnectorConfig, pkgerrors.KindFailedToObtainAuthType:
			status = http.StatusConflict
		}
		http.Error(w, connErr.Error(), status)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
