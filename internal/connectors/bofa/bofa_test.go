package bofa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	connectorspkg "github.com/kevin07696/payment-connectors/internal/connectors"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, "https://apitest.merchant-services.bankofamerica.com", DefaultConfig("sandbox").BaseURL)
	assert.Equal(t, "https://api.merchant-services.bankofamerica.com", DefaultConfig("production").BaseURL)
}

func TestCapabilities(t *testing.T) {
	c := New(DefaultConfig("sandbox"), nil, nil)
	caps := c.Capabilities()
	assert.True(t, caps.Supports(connectorspkg.FlowAuthorize))
	assert.True(t, caps.Supports(connectorspkg.FlowCapture))
	assert.True(t, caps.Supports(connectorspkg.FlowVoid))
	assert.True(t, caps.Supports(connectorspkg.FlowRefund))
	assert.True(t, caps.Supports(connectorspkg.FlowSync))
	assert.False(t, caps.Supports(connectorspkg.FlowSubmitEvidence))
	assert.False(t, caps.Supports(connectorspkg.FlowPayoutCreate))
}

func TestCredentials(t *testing.T) {
	keyID, merchantID, secret, err := credentials(ports.ConnectorAuth{
		Kind:      ports.AuthSignatureKey,
		APIKey:    "key-id",
		Key1:      "merchant-id",
		APISecret: "c2VjcmV0",
	})
	require.NoError(t, err)
	assert.Equal(t, "key-id", keyID)
	assert.Equal(t, "merchant-id", merchantID)
	assert.Equal(t, "c2VjcmV0", secret)

	invalid := []ports.ConnectorAuth{
		{Kind: ports.AuthHeaderKey, APIKey: "k", Key1: "m", APISecret: "s"},
		{Kind: ports.AuthSignatureKey, Key1: "m", APISecret: "s"},
		{Kind: ports.AuthSignatureKey, APIKey: "k", APISecret: "s"},
		{Kind: ports.AuthSignatureKey, APIKey: "k", Key1: "m"},
	}
	for _, auth := range invalid {
		_, _, _, err := credentials(auth)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindFailedToObtainAuthType))
	}
}

func TestSignHeaders(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

	t.Run("deterministic header set", func(t *testing.T) {
		headers, err := signHeaders("POST", "apitest.merchant-services.bankofamerica.com",
			"/pts/v2/payments", []byte(`{"a":1}`), "key-id", "merchant-id", "c2VjcmV0", now)
		require.NoError(t, err)

		assert.Equal(t, "merchant-id", headers["v-c-merchant-id"])
		assert.Equal(t, "apitest.merchant-services.bankofamerica.com", headers["Host"])
		assert.Equal(t, "Fri, 28 Aug 2026 12:00:00 GMT", headers["Date"])
		assert.True(t, len(headers["Digest"]) > len("SHA-256="))
		assert.Contains(t, headers["Digest"], "SHA-256=")
		assert.Contains(t, headers["Signature"], `keyid="key-id"`)
		assert.Contains(t, headers["Signature"], `algorithm="HmacSHA256"`)
		assert.Contains(t, headers["Signature"], `headers="host date request-target digest v-c-merchant-id"`)

		// Same inputs, same signature.
		again, err := signHeaders("POST", "apitest.merchant-services.bankofamerica.com",
			"/pts/v2/payments", []byte(`{"a":1}`), "key-id", "merchant-id", "c2VjcmV0", now)
		require.NoError(t, err)
		assert.Equal(t, headers, again)
	})

	t.Run("body change changes digest and signature", func(t *testing.T) {
		first, err := signHeaders("POST", "host", "/path", []byte(`{"a":1}`), "k", "m", "c2VjcmV0", now)
		require.NoError(t, err)
		second, err := signHeaders("POST", "host", "/path", []byte(`{"a":2}`), "k", "m", "c2VjcmV0", now)
		require.NoError(t, err)
		assert.NotEqual(t, first["Digest"], second["Digest"])
		assert.NotEqual(t, first["Signature"], second["Signature"])
	})

	t.Run("invalid base64 secret", func(t *testing.T) {
		_, err := signHeaders("POST", "host", "/path", nil, "k", "m", "not base64 !!!", now)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindInvalidConnectorConfig))
	})
}

func TestParseWebhookNotSupported(t *testing.T) {
	c := New(DefaultConfig("sandbox"), nil, nil)
	_, err := c.ParseWebhook([]byte(`{}`), nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindNotSupported))
}
