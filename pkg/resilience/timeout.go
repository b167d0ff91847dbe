package resilience

import (
	"context"
	"time"
)

// TimeoutConfig defines timeout values for the application's timeout hierarchy
//
// Timeout Hierarchy (from outermost to innermost):
//   HTTP Handler (60s)
//     ↓
//   Flow orchestration (50s)
//     ↓
//   Connector API call (30s)
//     ↓
//   Database Query (2s/5s - based on complexity)
//
// This hierarchy ensures each layer completes before its parent times out,
// preventing cascading timeout failures and providing predictable behavior.
type TimeoutConfig struct {
	// Handler layer timeouts
	HTTPHandler time.Duration // Overall request timeout (default: 60s)

	// Service layer timeouts
	Flow time.Duration // Flow orchestration timeout (default: 50s)

	// Connector timeouts (adapters)
	ConnectorAPI time.Duration // Connector API calls (default: 30s)
	SingleRetry  time.Duration // Individual retry attempt (default: 10s)
}

// DefaultTimeoutConfig returns production timeout values
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler:  60 * time.Second,
		Flow:         50 * time.Second,
		ConnectorAPI: 30 * time.Second,
		SingleRetry:  10 * time.Second,
	}
}

// TestTimeoutConfig returns shorter timeouts for testing
func TestTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler:  5 * time.Second,
		Flow:         4 * time.Second,
		ConnectorAPI: 2 * time.Second,
		SingleRetry:  1 * time.Second,
	}
}

// HandlerContext creates a context with timeout for HTTP handlers
func (tc *TimeoutConfig) HandlerContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.HTTPHandler)
}

// FlowContext creates a context with timeout for flow orchestration
func (tc *TimeoutConfig) FlowContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.Flow)
}

// ConnectorContext creates a context for connector API calls
func (tc *TimeoutConfig) ConnectorContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.ConnectorAPI)
}

// RetryAttemptContext creates a context for a single retry attempt
func (tc *TimeoutConfig) RetryAttemptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.SingleRetry)
}
