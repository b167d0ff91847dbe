package models

// Sentinel values used when a connector omits an error code or message.
// Downstream consumers can rely on Code/Message always being populated.
const (
	NoErrorCode    = "NO_ERROR_CODE"
	NoErrorMessage = "NO_ERROR_MESSAGE"
)

// ErrorResponse is the canonical business-level error envelope. A declined
// payment is not a Go error: it travels back as status=Failure plus one of
// these, on the same path as a success.
type ErrorResponse struct {
	Code                   string
	Message                string
	Reason                 *string
	StatusCode             int
	AttemptStatus          AttemptStatus
	ConnectorTransactionID string
	IssuerErrorCode        string
	IssuerErrorMessage     string
}

// NewErrorResponse applies the sentinel fallbacks so Code and Message are
// never empty.
func NewErrorResponse(code, message string, statusCode int) ErrorResponse {
	if code == "" {
		code = NoErrorCode
	}
	if message == "" {
		message = NoErrorMessage
	}
	return ErrorResponse{Code: code, Message: message, StatusCode: statusCode}
}
