package ports

import "context"

// ContentType of an outbound connector request body.
type ContentType string

const (
	ContentTypeJSON ContentType = "application/json"
	ContentTypeForm ContentType = "application/x-www-form-urlencoded"
)

// ConnectorRequest is one fully-assembled outbound call. Serialization into
// Body is the connector's job; the transport only moves bytes.
type ConnectorRequest struct {
	Method      string
	URL         string
	Headers     map[string]string
	ContentType ContentType
	Body        []byte
}

// ConnectorResponse is the raw reply. A non-2xx status is not a transport
// error; business-level declines are parsed out of the body.
type ConnectorResponse struct {
	StatusCode int
	Body       []byte
}

// Transport performs the HTTP call. Retries, backoff, and timeouts live
// behind this interface, not in the adapter framework.
type Transport interface {
	Send(ctx context.Context, req *ConnectorRequest) (*ConnectorResponse, error)
}
