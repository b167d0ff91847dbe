// Package bofa implements the Bank of America connector on the CyberSource
// payments platform: JSON wire format, major-unit decimal amounts, and
// HTTP-signature request authentication.
package bofa

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/connectors"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

const connectorName = "bankofamerica"

// Config contains the API endpoint.
type Config struct {
	BaseURL string // e.g. https://apitest.merchant-services.bankofamerica.com
}

// DefaultConfig returns sandbox or production endpoints.
func DefaultConfig(environment string) *Config {
	if environment == "sandbox" {
		return &Config{BaseURL: "https://apitest.merchant-services.bankofamerica.com"}
	}
	return &Config{BaseURL: "https://api.merchant-services.bankofamerica.com"}
}

// Connector is the Bank of America adapter.
type Connector struct {
	config    *Config
	transport ports.Transport
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a Bank of America connector.
func New(config *Config, transport ports.Transport, logger *zap.Logger) *Connector {
	return &Connector{config: config, transport: transport, logger: logger, now: time.Now}
}

func (c *Connector) Name() string { return connectorName }

// Capabilities declares the supported flow set: the core payment flows only.
func (c *Connector) Capabilities() connectors.Capabilities {
	return connectors.Capabilities{Flows: map[connectors.Flow]bool{
		connectors.FlowAuthorize: true,
		connectors.FlowCapture:   true,
		connectors.FlowVoid:      true,
		connectors.FlowRefund:    true,
		connectors.FlowSync:      true,
	}}
}

// credentials validates the signature-key triple: API key id, merchant id,
// and the base64 shared secret.
func credentials(auth ports.ConnectorAuth) (keyID, merchantID, secret string, err error) {
	if auth.Kind != ports.AuthSignatureKey || auth.APIKey == "" || auth.Key1 == "" || auth.APISecret == "" {
		return "", "", "", pkgerrors.NewFailedToObtainAuthType(connectorName)
	}
	return auth.APIKey, auth.Key1, auth.APISecret, nil
}

// signHeaders produces the platform's HTTP-signature header set: a SHA-256
// body digest plus an HMAC signature over host, date, request target,
// digest, and merchant id.
func signHeaders(method, host, path string, body []byte, keyID, merchantID, secret string, now time.Time) (map[string]string, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, pkgerrors.NewInvalidConnectorConfig("api_secret")
	}
	date := now.UTC().Format(time.RFC1123)
	date = strings.Replace(date, "UTC", "GMT", 1)

	digestSum := sha256.Sum256(body)
	digest := "SHA-256=" + base64.StdEncoding.EncodeToString(digestSum[:])

	target := strings.ToLower(method) + " " + path
	signedHeaders := "host date request-target digest v-c-merchant-id"
	signingString := strings.Join([]string{
		"host: " + host,
		"date: " + date,
		"request-target: " + target,
		"digest: " + digest,
		"v-c-merchant-id: " + merchantID,
	}, "\n")

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(signingString))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return map[string]string{
		"v-c-merchant-id": merchantID,
		"Date":            date,
		"Host":            host,
		"Digest":          digest,
		"Signature": fmt.Sprintf(
			`keyid="%s", algorithm="HmacSHA256", headers="%s", signature="%s"`,
			keyID, signedHeaders, signature,
		),
	}, nil
}

func (c *Connector) send(ctx context.Context, method, path string, payload any, auth ports.ConnectorAuth) (*ports.ConnectorResponse, error) {
	keyID, merchantID, secret, err := credentials(auth)
	if err != nil {
		return nil, err
	}
	var body []byte
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, pkgerrors.NewInvalidConnectorConfig("base_url")
	}
	headers, err := signHeaders(method, base.Host, path, body, keyID, merchantID, secret, c.now())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("sending bankofamerica request", zap.String("path", path))
	resp, err := c.transport.Send(ctx, &ports.ConnectorRequest{
		Method:      method,
		URL:         c.config.BaseURL + path,
		ContentType: ports.ContentTypeJSON,
		Headers:     headers,
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// Authorize executes /pts/v2/payments; capture=true folds capture into the
// same message.
func (c *Connector) Authorize(ctx context.Context, req *ports.AuthorizeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	payload, err := buildPaymentsRequest(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, "POST", "/pts/v2/payments", payload, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return &ports.FlowResult{Status: models.StatusFailure, Error: handleErrorBody(resp.Body, resp.StatusCode)}, nil
	}
	return handlePaymentsResponse(resp.Body, resp.StatusCode, !req.Attempt.CaptureMethod.IsManual())
}

// Capture executes /pts/v2/payments/{id}/captures.
func (c *Connector) Capture(ctx context.Context, req *ports.CaptureRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	path := fmt.Sprintf("/pts/v2/payments/%s/captures", req.ConnectorTransactionID)
	resp, err := c.send(ctx, "POST", path, buildCaptureRequest(req), auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		errResp := handleErrorBody(resp.Body, resp.StatusCode)
		errResp.AttemptStatus = models.StatusCaptureFailed
		return &ports.FlowResult{Status: models.StatusCaptureFailed, Error: errResp}, nil
	}
	// A capture resource in PENDING means accepted; settlement confirmation
	// arrives on sync.
	return handlePaymentsResponse(resp.Body, resp.StatusCode, true)
}

// Void executes /pts/v2/payments/{id}/voids.
func (c *Connector) Void(ctx context.Context, req *ports.VoidRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	path := fmt.Sprintf("/pts/v2/payments/%s/voids", req.ConnectorTransactionID)
	payload := voidRequest{ClientReferenceInformation: clientReferenceInformation{Code: req.Attempt.ID}}
	resp, err := c.send(ctx, "POST", path, payload, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		errResp := handleErrorBody(resp.Body, resp.StatusCode)
		errResp.AttemptStatus = models.StatusVoidFailed
		return &ports.FlowResult{Status: models.StatusVoidFailed, Error: errResp}, nil
	}
	return handlePaymentsResponse(resp.Body, resp.StatusCode, false)
}

// Refund executes /pts/v2/payments/{id}/refunds.
func (c *Connector) Refund(ctx context.Context, req *ports.RefundRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	path := fmt.Sprintf("/pts/v2/payments/%s/refunds", req.ConnectorTransactionID)
	resp, err := c.send(ctx, "POST", path, buildRefundRequest(req), auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return &ports.FlowResult{Status: models.StatusFailure, Error: handleErrorBody(resp.Body, resp.StatusCode)}, nil
	}
	return handleRefundResponse(resp.Body)
}

// Sync retrieves the transaction's current state.
func (c *Connector) Sync(ctx context.Context, req *ports.SyncRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	path := fmt.Sprintf("/tss/v2/transactions/%s", req.ConnectorTransactionID)
	resp, err := c.send(ctx, "GET", path, nil, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return &ports.FlowResult{Status: models.StatusPending, Error: handleErrorBody(resp.Body, resp.StatusCode)}, nil
	}
	return handlePaymentsResponse(resp.Body, resp.StatusCode, !req.Attempt.CaptureMethod.IsManual())
}

func (c *Connector) AcceptDispute(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return nil, pkgerrors.NewFlowNotSupported(connectorName, "accept_dispute")
}

func (c *Connector) DefendDispute(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return nil, pkgerrors.NewFlowNotSupported(connectorName, "defend_dispute")
}

func (c *Connector) SubmitEvidence(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
	return nil, pkgerrors.NewFlowNotSupported(connectorName, "submit_evidence")
}

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

// ParseWebhook: the platform delivers no payment webhooks; state is pulled
// through sync.
func (c *Connector) ParseWebhook(body []byte, headers map[string]string) (*ports.WebhookResult, error) {
	return nil, pkgerrors.NewNotSupported(connectorName, "webhooks")
}
