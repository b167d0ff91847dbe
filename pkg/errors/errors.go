package errors

import (
	"errors"
	"fmt"
)

// Kind classifies connector framework errors for handling. These are hard
// errors: structurally invalid input or configuration. Business-level
// declines never take this path.
type Kind string

const (
	KindMissingRequiredField   Kind = "missing_required_field"
	KindNotImplemented         Kind = "not_implemented"
	KindNotSupported           Kind = "not_supported"
	KindFailedToObtainAuthType Kind = "failed_to_obtain_auth_type"
	KindInvalidConnectorConfig Kind = "invalid_connector_config"
	KindWebhookBodyDecoding    Kind = "webhook_body_decoding_failed"
	KindFlowNotSupported       Kind = "flow_not_supported"
	KindResponseHandling       Kind = "response_handling_failed"
)

// ConnectorError is a framework-level failure with enough context (field
// name, connector, feature) to be actionable without a stack trace.
type ConnectorError struct {
	Kind      Kind
	Connector string
	Field     string
	Feature   string
	Flow      string
	Message   string
	Cause     error
}

func (e *ConnectorError) Error() string {
	switch e.Kind {
	case KindMissingRequiredField:
		return fmt.Sprintf("missing required field: %s", e.Field)
	case KindNotImplemented:
		return fmt.Sprintf("%s is not implemented for connector %s", e.Feature, e.Connector)
	case KindNotSupported:
		return fmt.Sprintf("%s is not supported by %s", e.Feature, e.Connector)
	case KindFailedToObtainAuthType:
		return fmt.Sprintf("failed to obtain auth type for connector %s", e.Connector)
	case KindInvalidConnectorConfig:
		return fmt.Sprintf("invalid connector config: %s", e.Field)
	case KindWebhookBodyDecoding:
		return "webhook body decoding failed"
	case KindFlowNotSupported:
		return fmt.Sprintf("flow %s is not supported by connector %s", e.Flow, e.Connector)
	case KindResponseHandling:
		return fmt.Sprintf("response handling failed: %s", e.Message)
	}
	return e.Message
}

func (e *ConnectorError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is, or wraps, a ConnectorError of the given
// kind.
func IsKind(err error, kind Kind) bool {
	var ce *ConnectorError
	return errors.As(err, &ce) && ce.Kind == kind
}

// NewMissingRequiredField builds the precise-field-name validation error
// mappers return; a generic "bad request" is never acceptable.
func NewMissingRequiredField(field string) *ConnectorError {
	return &ConnectorError{Kind: KindMissingRequiredField, Field: field}
}

// NewNotImplemented marks a payment method or feature the connector never
// supports.
func NewNotImplemented(connector, feature string) *ConnectorError {
	return &ConnectorError{Kind: KindNotImplemented, Connector: connector, Feature: feature}
}

// NewNotSupported marks a combination the connector supports in general but
// not in this context (e.g. card payout creation).
func NewNotSupported(connector, feature string) *ConnectorError {
	return &ConnectorError{Kind: KindNotSupported, Connector: connector, Feature: feature}
}

// NewFailedToObtainAuthType signals a credential shape mismatch.
func NewFailedToObtainAuthType(connector string) *ConnectorError {
	return &ConnectorError{Kind: KindFailedToObtainAuthType, Connector: connector}
}

// NewInvalidConnectorConfig signals a malformed or unknown configuration
// value.
func NewInvalidConnectorConfig(field string) *ConnectorError {
	return &ConnectorError{Kind: KindInvalidConnectorConfig, Field: field}
}

// NewWebhookBodyDecodingFailed wraps a webhook payload that could not be
// decoded into the connector's declared shape.
func NewWebhookBodyDecodingFailed(cause error) *ConnectorError {
	return &ConnectorError{Kind: KindWebhookBodyDecoding, Cause: cause}
}

// NewFlowNotSupported signals a flow outside the connector's declared
// capability set.
func NewFlowNotSupported(connector, flow string) *ConnectorError {
	return &ConnectorError{Kind: KindFlowNotSupported, Connector: connector, Flow: flow}
}

// NewResponseHandlingFailed wraps a structurally invalid success response.
func NewResponseHandlingFailed(message string, cause error) *ConnectorError {
	return &ConnectorError{Kind: KindResponseHandling, Message: message, Cause: cause}
}
