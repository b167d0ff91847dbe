// Package adyen implements the Adyen checkout connector: JSON wire format,
// untagged response union, webhook-driven capture/refund confirmation, and
// the full dispute and payout surface.
package adyen

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/connectors"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

const connectorName = "adyen"

// Config contains endpoints for the checkout, payout, and dispute APIs.
type Config struct {
	// Checkout API, e.g. https://checkout-test.adyen.com/v68
	BaseURL string
	// Payout API, e.g. https://pal-test.adyen.com/pal/servlet/Payout/v68
	PayoutURL string
	// Dispute API, e.g. https://ca-test.adyen.com/ca/services/DisputeService/v30
	DisputeURL string
}

// DefaultConfig returns sandbox or production endpoints.
func DefaultConfig(environment string) *Config {
	if environment == "sandbox" {
		return &Config{
			BaseURL:    "https://checkout-test.adyen.com/v68",
			PayoutURL:  "https://pal-test.adyen.com/pal/servlet/Payout/v68",
			DisputeURL: "https://ca-test.adyen.com/ca/services/DisputeService/v30",
		}
	}
	return &Config{
		BaseURL:    "https://checkout-live.adyen.com/v68",
		PayoutURL:  "https://pal-live.adyen.com/pal/servlet/Payout/v68",
		DisputeURL: "https://ca-live.adyen.com/ca/services/DisputeService/v30",
	}
}

// Connector is the Adyen adapter. It is a pure transformation layer around
// the injected transport: no retries, no shared mutable state.
type Connector struct {
	config    *Config
	transport ports.Transport
	logger    *zap.Logger
}

// New creates an Adyen connector.
func New(config *Config, transport ports.Transport, logger *zap.Logger) *Connector {
	return &Connector{config: config, transport: transport, logger: logger}
}

func (c *Connector) Name() string { return connectorName }

// Capabilities declares the supported flow set; payout eligibility is the
// one payout flow Adyen does not offer.
func (c *Connector) Capabilities() connectors.Capabilities {
	return connectors.Capabilities{Flows: map[connectors.Flow]bool{
		connectors.FlowAuthorize:      true,
		connectors.FlowCapture:        true,
		connectors.FlowVoid:           true,
		connectors.FlowRefund:         true,
		connectors.FlowSync:           true,
		connectors.FlowAcceptDispute:  true,
		connectors.FlowDefendDispute:  true,
		connectors.FlowSubmitEvidence: true,
		connectors.FlowPayoutCreate:   true,
		connectors.FlowPayoutFulfill:  true,
		connectors.FlowPayoutCancel:   true,
	}}
}

// merchantAccount extracts the Adyen credential pair: X-API-Key plus the
// merchant account code. Anything but a body-key shape is a config error.
func merchantAccount(auth ports.ConnectorAuth) (string, error) {
	if auth.Kind != ports.AuthBodyKey || auth.APIKey == "" || auth.Key1 == "" {
		return "", pkgerrors.NewFailedToObtainAuthType(connectorName)
	}
	return auth.Key1, nil
}

func (c *Connector) send(ctx context.Context, url string, payload any, auth ports.ConnectorAuth) (*ports.ConnectorResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	c.logger.Debug("sending adyen request", zap.String("url", url))
	resp, err := c.transport.Send(ctx, &ports.ConnectorRequest{
		Method:      "POST",
		URL:         url,
		ContentType: ports.ContentTypeJSON,
		Headers:     map[string]string{"X-API-Key": auth.APIKey},
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// Authorize executes the /payments flow.
func (c *Connector) Authorize(ctx context.Context, req *ports.AuthorizeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	account, err := merchantAccount(auth)
	if err != nil {
		return nil, err
	}
	payload, err := buildPaymentRequest(req, account)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, c.config.BaseURL+"/payments", payload, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return &ports.FlowResult{Status: models.StatusFailure, Error: handleErrorBody(resp.Body, resp.StatusCode)}, nil
	}
	parsed, err := parsePaymentResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	return handlePaymentResponse(parsed, resp.StatusCode, req.Attempt.CaptureMethod.IsManual(), req.Context.PaymentMethodType)
}

// Capture executes /payments/{psp}/captures; the outcome arrives by webhook.
func (c *Connector) Capture(ctx context.Context, req *ports.CaptureRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	account, err := merchantAccount(auth)
	if err != nil {
		return nil, err
	}
	splits, store := mapSplits(req.Charges, req.Attempt.Currency)
	payload := captureRequest{
		MerchantAccount: account,
		Amount:          Amount{Currency: req.Attempt.Currency, Value: req.AmountMinor},
		Reference:       req.Attempt.ID,
		Splits:          splits,
		Store:           store,
	}
	url := fmt.Sprintf("%s/payments/%s/captures", c.config.BaseURL, req.ConnectorTransactionID)
	resp, err := c.send(ctx, url, payload, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return &ports.FlowResult{Status: models.StatusCaptureFailed, Error: handleErrorBody(resp.Body, resp.StatusCode)}, nil
	}
	return handleModificationResponse(resp.Body, models.StatusPending)
}

// Void executes /payments/{psp}/cancels.
func (c *Connector) Void(ctx context.Context, req *ports.VoidRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	account, err := merchantAccount(auth)
	if err != nil {
		return nil, err
	}
	payload := cancelRequest{MerchantAccount: account, Reference: req.Attempt.ID}
	url := fmt.Sprintf("%s/payments/%s/cancels", c.config.BaseURL, req.ConnectorTransactionID)
	resp, err := c.send(ctx, url, payload, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return &ports.FlowResult{Status: models.StatusVoidFailed, Error: handleErrorBody(resp.Body, resp.StatusCode)}, nil
	}
	return handleModificationResponse(resp.Body, models.StatusPending)
}

// Refund executes /payments/{psp}/refunds; splits are translated exactly as
// on authorize.
func (c *Connector) Refund(ctx context.Context, req *ports.RefundRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	account, err := merchantAccount(auth)
	if err != nil {
		return nil, err
	}
	splits, store := mapSplits(req.Charges, req.Attempt.Currency)
	payload := refundRequest{
		MerchantAccount:      account,
		Amount:               Amount{Currency: req.Attempt.Currency, Value: req.AmountMinor},
		MerchantRefundReason: req.Reason,
		Reference:            req.RefundID,
		Splits:               splits,
		Store:                store,
	}
	url := fmt.Sprintf("%s/payments/%s/refunds", c.config.BaseURL, req.ConnectorTransactionID)
	resp, err := c.send(ctx, url, payload, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return &ports.FlowResult{Status: models.StatusFailure, Error: handleErrorBody(resp.Body, resp.StatusCode)}, nil
	}
	return handleModificationResponse(resp.Body, models.StatusPending)
}

// Sync interprets the latest stored notification for the attempt. Adyen has
// no payment-query endpoint, so the scheduler feeds the webhook-delivered
// resource back through this flow; multi-capture orders branch into a
// captures-list response.
func (c *Connector) Sync(ctx context.Context, req *ports.SyncRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	if _, err := merchantAccount(auth); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/payments/%s", c.config.BaseURL, req.ConnectorTransactionID)
	resp, err := c.send(ctx, url, struct{}{}, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return &ports.FlowResult{Status: models.StatusPending, Error: handleErrorBody(resp.Body, resp.StatusCode)}, nil
	}
	parsed, err := parsePaymentResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	isManual := req.Attempt.CaptureMethod.IsManual()
	if parsed.Webhook != nil && len(req.CaptureIDs) > 0 {
		return handleMultiCaptureSync(parsed.Webhook, req.CaptureIDs, isManual)
	}
	return handlePaymentResponse(parsed, resp.StatusCode, isManual, "")
}

type disputeServiceRequest struct {
	DisputePspReference string `json:"disputePspReference"`
	MerchantAccountCode string `json:"merchantAccountCode"`
	DefenseReasonCode   string `json:"defenseReasonCode,omitempty"`
}

type disputeServiceResponse struct {
	DisputeServiceResult struct {
		Success      bool   `json:"success"`
		ErrorMessage string `json:"errorMessage"`
	} `json:"disputeServiceResult"`
}

func (c *Connector) disputeCall(ctx context.Context, path string, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	account, err := merchantAccount(auth)
	if err != nil {
		return nil, err
	}
	payload := disputeServiceRequest{
		DisputePspReference: req.ConnectorDisputeID,
		MerchantAccountCode: account,
		DefenseReasonCode:   req.DefenseReasonCode,
	}
	resp, err := c.send(ctx, c.config.DisputeURL+path, payload, auth)
	if err != nil {
		return nil, err
	}
	var out disputeServiceResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid dispute response", err)
	}
	if !out.DisputeServiceResult.Success {
		errResp := models.NewErrorResponse("", out.DisputeServiceResult.ErrorMessage, resp.StatusCode)
		return &ports.FlowResult{Status: models.StatusFailure, Error: &errResp}, nil
	}
	return &ports.FlowResult{
		Status:   models.StatusPending,
		Response: &models.ResponseData{ConnectorTransactionID: req.ConnectorDisputeID},
	}, nil
}

// AcceptDispute concedes the chargeback.
func (c *Connector) AcceptDispute(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return c.disputeCall(ctx, "/acceptDispute", req, auth)
}

// DefendDispute contests the chargeback with a defense reason code.
func (c *Connector) DefendDispute(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	if req.DefenseReasonCode == "" {
		return nil, pkgerrors.NewMissingRequiredField("dispute.defense_reason_code")
	}
	return c.disputeCall(ctx, "/defendDispute", req, auth)
}

type defenseDocumentRequest struct {
	DefenseDocuments    []defenseDocument `json:"defenseDocuments"`
	DisputePspReference string            `json:"disputePspReference"`
	MerchantAccountCode string            `json:"merchantAccountCode"`
}

type defenseDocument struct {
	Content           string `json:"content"`
	ContentType       string `json:"contentType"`
	DefenseDocumentTypeCode string `json:"defenseDocumentTypeCode"`
}

// SubmitEvidence uploads defense documents for a contested dispute.
func (c *Connector) SubmitEvidence(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	account, err := merchantAccount(auth)
	if err != nil {
		return nil, err
	}
	if len(req.Evidence) == 0 {
		return nil, pkgerrors.NewMissingRequiredField("dispute.evidence")
	}
	docs := make([]defenseDocument, 0, len(req.Evidence))
	for _, file := range req.Evidence {
		docs = append(docs, defenseDocument{
			Content:                 string(file.Content),
			ContentType:             file.ContentType,
			DefenseDocumentTypeCode: file.Name,
		})
	}
	payload := defenseDocumentRequest{
		DefenseDocuments:    docs,
		DisputePspReference: req.ConnectorDisputeID,
		MerchantAccountCode: account,
	}
	resp, err := c.send(ctx, c.config.DisputeURL+"/supplyDefenseDocument", payload, auth)
	if err != nil {
		return nil, err
	}
	var out disputeServiceResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid dispute response", err)
	}
	if !out.DisputeServiceResult.Success {
		errResp := models.NewErrorResponse("", out.DisputeServiceResult.ErrorMessage, resp.StatusCode)
		return &ports.FlowResult{Status: models.StatusFailure, Error: &errResp}, nil
	}
	return &ports.FlowResult{
		Status:   models.StatusPending,
		Response: &models.ResponseData{ConnectorTransactionID: req.ConnectorDisputeID},
	}, nil
}

type payoutSubmitRequest struct {
	Amount           Amount        `json:"amount"`
	MerchantAccount  string        `json:"merchantAccount"`
	Recurring        payoutContract `json:"recurring"`
	Reference        string        `json:"reference"`
	ShopperEmail     string        `json:"shopperEmail,omitempty"`
	ShopperReference string        `json:"shopperReference"`
	ShopperName      *shopperName  `json:"shopperName,omitempty"`
	Bank             *payoutBank   `json:"bank,omitempty"`
	Card             *payoutCard   `json:"card,omitempty"`
}

type payoutContract struct {
	Contract string `json:"contract"`
}

type payoutBank struct {
	Iban        string `json:"iban,omitempty"`
	OwnerName   string `json:"ownerName"`
	CountryCode string `json:"countryCode"`
}

type payoutCard struct {
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	HolderName  string `json:"holderName"`
}

type payoutModifyRequest struct {
	MerchantAccount   string `json:"merchantAccount"`
	OriginalReference string `json:"originalReference"`
}

type payoutResponse struct {
	PspReference  string `json:"pspReference"`
	ResultCode    Status `json:"resultCode"`
	Response      Status `json:"response"`
	RefusalReason string `json:"refusalReason"`
}

// buildPayoutRequest maps the canonical payout method. Adyen third-party
// payouts accept bank (SEPA) and card destinations only.
func buildPayoutRequest(req *ports.PayoutRequest, account string) (*payoutSubmitRequest, error) {
	out := &payoutSubmitRequest{
		Amount:           Amount{Currency: req.Attempt.Currency, Value: req.Attempt.AmountMinor},
		MerchantAccount:  account,
		Recurring:        payoutContract{Contract: "PAYOUT"},
		Reference:        req.PayoutID,
		ShopperEmail:     req.Context.Email,
		ShopperReference: req.Attempt.ShopperReference(),
	}
	if billing := req.Context.Billing; billing != nil {
		out.ShopperName = &shopperName{FirstName: billing.FirstName, LastName: billing.LastName}
	}
	switch req.PaymentMethod.Kind() {
	case models.KindBankDebit:
		debit := req.PaymentMethod.BankDebit
		if debit.Kind != models.BankDebitSepa {
			return nil, pkgerrors.NewNotSupported(connectorName, string(debit.Kind)+" payouts")
		}
		iban, err := connectors.RequireString(debit.IBAN, "bank_debit.sepa.iban")
		if err != nil {
			return nil, err
		}
		billing := req.Context.Billing
		if billing == nil {
			return nil, pkgerrors.NewMissingRequiredField("billing")
		}
		out.Bank = &payoutBank{Iban: iban, OwnerName: billing.FullName(), CountryCode: billing.Country}
	case models.KindCard:
		card := req.PaymentMethod.Card
		if err := connectors.CollectMissing(map[string]string{
			"card.number":    card.Number,
			"card.exp_month": card.ExpMonth,
			"card.exp_year":  card.ExpYear,
		}); err != nil {
			return nil, err
		}
		out.Card = &payoutCard{
			Number:      card.Number,
			ExpiryMonth: card.ExpMonth,
			ExpiryYear:  card.ExpYear,
			HolderName:  card.HolderName,
		}
	default:
		return nil, pkgerrors.NewNotImplemented(connectorName, string(req.PaymentMethod.Kind())+" payouts")
	}
	return out, nil
}

func (c *Connector) handlePayoutResponse(resp *ports.ConnectorResponse) (*ports.FlowResult, error) {
	if resp.StatusCode >= 400 {
		return &ports.FlowResult{Status: models.StatusFailure, Error: handleErrorBody(resp.Body, resp.StatusCode)}, nil
	}
	var out payoutResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, pkgerrors.NewResponseHandlingFailed("invalid payout response", err)
	}
	code := out.ResultCode
	if code == "" {
		code = out.Response
	}
	status := paymentStatus(code, false, "")
	result := &ports.FlowResult{Status: status}
	if status == models.StatusFailure {
		result.Error = refusalError("", out.RefusalReason, resp.StatusCode, out.PspReference, status)
		return result, nil
	}
	result.Response = &models.ResponseData{ConnectorTransactionID: out.PspReference}
	return result, nil
}

// PayoutCreate stores the destination and submits a third-party payout.
func (c *Connector) PayoutCreate(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	account, err := merchantAccount(auth)
	if err != nil {
		return nil, err
	}
	payload, err := buildPayoutRequest(req, account)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, c.config.PayoutURL+"/storeDetailAndSubmitThirdParty", payload, auth)
	if err != nil {
		return nil, err
	}
	return c.handlePayoutResponse(resp)
}

// PayoutFulfill confirms a submitted payout.
func (c *Connector) PayoutFulfill(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	account, err := merchantAccount(auth)
	if err != nil {
		return nil, err
	}
	payload := payoutModifyRequest{MerchantAccount: account, OriginalReference: req.Attempt.ConnectorTransactionID}
	resp, err := c.send(ctx, c.config.PayoutURL+"/confirmThirdParty", payload, auth)
	if err != nil {
		return nil, err
	}
	return c.handlePayoutResponse(resp)
}

// PayoutCancel declines a submitted payout.
func (c *Connector) PayoutCancel(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	account, err := merchantAccount(auth)
	if err != nil {
		return nil, err
	}
	payload := payoutModifyRequest{MerchantAccount: account, OriginalReference: req.Attempt.ConnectorTransactionID}
	resp, err := c.send(ctx, c.config.PayoutURL+"/declineThirdParty", payload, auth)
	if err != nil {
		return nil, err
	}
	return c.handlePayoutResponse(resp)
}

// PayoutEligibility is outside Adyen's payout surface.
func (c *Connector) PayoutEligibility(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return nil, pkgerrors.NewNotSupported(connectorName, "payout eligibility")
}

// ParseWebhook classifies one inbound notification.
func (c *Connector) ParseWebhook(body []byte, headers map[string]string) (*ports.WebhookResult, error) {
	return parseWebhook(body)
}
