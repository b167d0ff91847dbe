// Package stripe implements the Stripe connector: form-encoded requests
// against the PaymentIntents API, JSON responses, and typed webhook events.
package stripe

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/connectors"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

const connectorName = "stripe"

// Config contains the API endpoint.
type Config struct {
	BaseURL string // e.g. https://api.stripe.com/v1
}

// DefaultConfig returns the production endpoint; Stripe separates test from
// live by key, not by host.
func DefaultConfig() *Config {
	return &Config{BaseURL: "https://api.stripe.com/v1"}
}

// Connector is the Stripe adapter.
type Connector struct {
	config    *Config
	transport ports.Transport
	logger    *zap.Logger
}

// New creates a Stripe connector.
func New(config *Config, transport ports.Transport, logger *zap.Logger) *Connector {
	return &Connector{config: config, transport: transport, logger: logger}
}

func (c *Connector) Name() string { return connectorName }

// Capabilities declares the supported flow set; Stripe Connect payouts are
// outside the scope of this adapter.
func (c *Connector) Capabilities() connectors.Capabilities {
	return connectors.Capabilities{Flows: map[connectors.Flow]bool{
		connectors.FlowAuthorize:      true,
		connectors.FlowCapture:        true,
		connectors.FlowVoid:           true,
		connectors.FlowRefund:         true,
		connectors.FlowSync:           true,
		connectors.FlowSubmitEvidence: true,
	}}
}

// secretKey extracts the bearer credential. Stripe is a header-key connector.
func secretKey(auth ports.ConnectorAuth) (string, error) {
	if auth.Kind != ports.AuthHeaderKey || auth.APIKey == "" {
		return "", pkgerrors.NewFailedToObtainAuthType(connectorName)
	}
	return auth.APIKey, nil
}

func (c *Connector) send(ctx context.Context, method, endpoint string, form url.Values, auth ports.ConnectorAuth) (*ports.ConnectorResponse, error) {
	key, err := secretKey(auth)
	if err != nil {
		return nil, err
	}
	var body []byte
	if form != nil {
		body = []byte(form.Encode())
	}
	c.logger.Debug("sending stripe request", zap.String("endpoint", endpoint))
	resp, err := c.transport.Send(ctx, &ports.ConnectorRequest{
		Method:      method,
		URL:         c.config.BaseURL + endpoint,
		ContentType: ports.ContentTypeForm,
		Headers:     map[string]string{"Authorization": "Bearer " + key},
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// Authorize creates and confirms a PaymentIntent in one call.
func (c *Connector) Authorize(ctx context.Context, req *ports.AuthorizeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	form, err := buildPaymentIntent(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, "POST", "/payment_intents", form, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return handleErrorBody(resp.Body, resp.StatusCode)
	}
	storesMandate := req.Attempt.SetupFutureUsage == models.FutureUsageOffSession
	return handlePaymentIntent(resp.Body, storesMandate)
}

// Capture captures a requires_capture intent, possibly partially.
func (c *Connector) Capture(ctx context.Context, req *ports.CaptureRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	form := buildCapture(req)
	endpoint := fmt.Sprintf("/payment_intents/%s/capture", req.ConnectorTransactionID)
	resp, err := c.send(ctx, "POST", endpoint, form, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		result, err := handleErrorBody(resp.Body, resp.StatusCode)
		if err != nil {
			return nil, err
		}
		result.Status = models.StatusCaptureFailed
		if result.Error != nil {
			result.Error.AttemptStatus = models.StatusCaptureFailed
		}
		return result, nil
	}
	return handlePaymentIntent(resp.Body, false)
}

// Void cancels an uncaptured intent.
func (c *Connector) Void(ctx context.Context, req *ports.VoidRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	form := url.Values{}
	form.Set("cancellation_reason", "requested_by_customer")
	endpoint := fmt.Sprintf("/payment_intents/%s/cancel", req.ConnectorTransactionID)
	resp, err := c.send(ctx, "POST", endpoint, form, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		result, err := handleErrorBody(resp.Body, resp.StatusCode)
		if err != nil {
			return nil, err
		}
		result.Status = models.StatusVoidFailed
		if result.Error != nil {
			result.Error.AttemptStatus = models.StatusVoidFailed
		}
		return result, nil
	}
	return handlePaymentIntent(resp.Body, false)
}

// Refund creates a refund against the intent.
func (c *Connector) Refund(ctx context.Context, req *ports.RefundRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	form := buildRefund(req)
	resp, err := c.send(ctx, "POST", "/refunds", form, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return handleErrorBody(resp.Body, resp.StatusCode)
	}
	return handleRefund(resp.Body)
}

// Sync retrieves the intent's current state.
func (c *Connector) Sync(ctx context.Context, req *ports.SyncRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	form := url.Values{}
	form.Set("expand[0]", "latest_charge")
	endpoint := fmt.Sprintf("/payment_intents/%s?%s", req.ConnectorTransactionID, form.Encode())
	resp, err := c.send(ctx, "GET", endpoint, nil, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return handleErrorBody(resp.Body, resp.StatusCode)
	}
	return handlePaymentIntent(resp.Body, false)
}

// AcceptDispute is not a distinct Stripe operation: closing the dispute
// without evidence concedes it.
func (c *Connector) AcceptDispute(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return nil, pkgerrors.NewFlowNotSupported(connectorName, "accept_dispute")
}

// DefendDispute has no dedicated endpoint either; defense happens through
// evidence submission.
func (c *Connector) DefendDispute(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return nil, pkgerrors.NewFlowNotSupported(connectorName, "defend_dispute")
}

// SubmitEvidence updates the dispute's evidence slots and submits them.
func (c *Connector) SubmitEvidence(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	form, err := buildEvidence(req)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("/disputes/%s", req.ConnectorDisputeID)
	resp, err := c.send(ctx, "POST", endpoint, form, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return handleErrorBody(resp.Body, resp.StatusCode)
	}
	return handleDispute(resp.Body)
}

// PayoutCreate is outside this adapter's flow set.
func (c *Connector) PayoutCreate(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return nil, pkgerrors.NewFlowNotSupported(connectorName, "payout_create")
}

func (c *Connector) PayoutFulfill(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return nil, pkgerrors.NewFlowNotSupported(connectorName, "payout_fulfill")
}

func (c *Connector) PayoutCancel(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return nil, pkgerrors.NewFlowNotSupported(connectorName, "payout_cancel")
}

func (c *Connector) PayoutEligibility(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return nil, pkgerrors.NewFlowNotSupported(connectorName, "payout_eligibility")
}

// ParseWebhook classifies one inbound Stripe event.
func (c *Connector) ParseWebhook(body []byte, headers map[string]string) (*ports.WebhookResult, error) {
	return parseWebhook(body)
}
