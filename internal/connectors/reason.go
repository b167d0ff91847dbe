package connectors

import (
	"fmt"
	"strings"
)

// FieldDetail is one field-level error fragment reported by a connector.
type FieldDetail struct {
	Field  string
	Reason string
}

// JoinFieldDetails renders detail fragments as "field : reason" pairs
// separated by ", ". Returns nil when there are no details.
func JoinFieldDetails(details []FieldDetail) *string {
	if len(details) == 0 {
		return nil
	}
	parts := make([]string, 0, len(details))
	for _, d := range details {
		parts = append(parts, fmt.Sprintf("%s : %s", d.Field, d.Reason))
	}
	joined := strings.Join(parts, ", ")
	return &joined
}

// ComposeReason assembles the human-readable error reason from up to three
// optional sources in fixed order: primary message, field-level detail, and
// AVS/risk annotations. The same inputs always produce the same string, and
// nil comes back only when all three are absent.
func ComposeReason(message, detailedError, avsMessage *string) *string {
	var out string
	switch {
	case message != nil && detailedError != nil && avsMessage != nil:
		out = fmt.Sprintf("%s, detailed_error_information: %s, avs_message: %s", *message, *detailedError, *avsMessage)
	case message != nil && detailedError != nil:
		out = fmt.Sprintf("%s, detailed_error_information: %s", *message, *detailedError)
	case message != nil && avsMessage != nil:
		out = fmt.Sprintf("%s, avs_message: %s", *message, *avsMessage)
	case detailedError != nil && avsMessage != nil:
		out = fmt.Sprintf("%s, avs_message: %s", *detailedError, *avsMessage)
	case message != nil:
		out = *message
	case detailedError != nil:
		out = *detailedError
	case avsMessage != nil:
		out = *avsMessage
	default:
		return nil
	}
	return &out
}
