package ports

import "context"

// AuthKind discriminates the credential shapes connectors accept.
type AuthKind string

const (
	AuthHeaderKey    AuthKind = "header_key"
	AuthBodyKey      AuthKind = "body_key"
	AuthSignatureKey AuthKind = "signature_key"
)

// ConnectorAuth is the credential set for one merchant/connector pair.
// APIKey is always present; Key1/APISecret are populated per kind:
//
//	header_key    — APIKey only
//	body_key      — APIKey + Key1
//	signature_key — APIKey + Key1 + APISecret
type ConnectorAuth struct {
	Kind      AuthKind
	APIKey    string
	Key1      string
	APISecret string
}

// ConnectorAuthStore resolves credentials for a merchant/connector pair.
type ConnectorAuthStore interface {
	Get(ctx context.Context, merchantID, connector string) (ConnectorAuth, error)
}
