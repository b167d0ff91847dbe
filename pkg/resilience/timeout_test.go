package resilience

import (
	"context"
	"testing"
	"time"
)

func TestDefaultTimeoutConfig(t *testing.T) {
	config := DefaultTimeoutConfig()

	// Verify timeout hierarchy is correctly ordered
	if config.HTTPHandler <= config.Flow {
		t.Errorf("HTTPHandler (%v) must be > Flow (%v)", config.HTTPHandler, config.Flow)
	}

	if config.Flow <= config.ConnectorAPI {
		t.Errorf("Flow (%v) must be > ConnectorAPI (%v)", config.Flow, config.ConnectorAPI)
	}

	if config.ConnectorAPI <= config.SingleRetry {
		t.Errorf("ConnectorAPI (%v) must be > SingleRetry (%v)", config.ConnectorAPI, config.SingleRetry)
	}

	// Verify production values
	if config.HTTPHandler != 60*time.Second {
		t.Errorf("Expected HTTPHandler = 60s, got %v", config.HTTPHandler)
	}

	if config.Flow != 50*time.Second {
		t.Errorf("Expected Flow = 50s, got %v", config.Flow)
	}

	if config.ConnectorAPI != 30*time.Second {
		t.Errorf("Expected ConnectorAPI = 30s, got %v", config.ConnectorAPI)
	}
}

func TestTestTimeoutConfig(t *testing.T) {
	config := TestTimeoutConfig()

	// Verify test timeouts are shorter
	if config.HTTPHandler >= 10*time.Second {
		t.Errorf("Test timeouts should be < 10s, got %v", config.HTTPHandler)
	}

	// Verify hierarchy is still preserved in test config
	if config.HTTPHandler <= config.Flow {
		t.Errorf("HTTPHandler (%v) must be > Flow (%v)", config.HTTPHandler, config.Flow)
	}

	if config.Flow <= config.ConnectorAPI {
		t.Errorf("Flow (%v) must be > ConnectorAPI (%v)", config.Flow, config.ConnectorAPI)
	}
}

func TestHandlerContext(t *testing.T) {
	config := DefaultTimeoutConfig()
	parent := context.Background()

	ctx, cancel := config.HandlerContext(parent)
	defer cancel()

	// Verify context has deadline
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("HandlerContext should have deadline")
	}

	// Verify deadline is approximately HTTPHandler duration from now
	expectedDeadline := time.Now().Add(config.HTTPHandler)
	diff := deadline.Sub(expectedDeadline).Abs()
	if diff > 100*time.Millisecond {
		t.Errorf("Deadline diff too large: %v", diff)
	}
}

func TestTimeoutHierarchyPreservation(t *testing.T) {
	// Verify that child contexts respect parent deadlines
	config := DefaultTimeoutConfig()

	// Create parent context with 5 second timeout
	parent, parentCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer parentCancel()

	// Try to create child with longer timeout
	child, childCancel := config.HandlerContext(parent)
	defer childCancel()

	// Child should inherit parent's shorter deadline
	parentDeadline, _ := parent.Deadline()
	childDeadline, _ := child.Deadline()

	// Child deadline should be same or earlier than parent
	if childDeadline.After(parentDeadline) {
		t.Errorf("Child deadline (%v) should not be after parent deadline (%v)",
			childDeadline, parentDeadline)
	}
}

func TestContextCancellationPropagation(t *testing.T) {
	config := DefaultTimeoutConfig()
	parent := context.Background()

	ctx, cancel := config.FlowContext(parent)

	// Cancel context
	cancel()

	// Verify context is cancelled
	select {
	case <-ctx.Done():
		// Expected
	case <-time.After(100 * time.Millisecond):
		t.Error("Context should be cancelled immediately")
	}

	// Verify error is context.Canceled
	if ctx.Err() != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", ctx.Err())
	}
}

func TestContextTimeout(t *testing.T) {
	// Use test config for faster tests
	config := TestTimeoutConfig()
	parent := context.Background()

	// Create context with 100ms timeout
	config.Flow = 100 * time.Millisecond
	ctx, cancel := config.FlowContext(parent)
	defer cancel()

	// Wait for timeout
	select {
	case <-ctx.Done():
		// Verify error is DeadlineExceeded
		if ctx.Err() != context.DeadlineExceeded {
			t.Errorf("Expected context.DeadlineExceeded, got %v", ctx.Err())
		}
	case <-time.After(200 * time.Millisecond):
		t.Error("Context should timeout after 100ms")
	}
}

func TestAllContextCreators(t *testing.T) {
	config := DefaultTimeoutConfig()
	parent := context.Background()

	tests := []struct {
		name    string
		creator func(context.Context) (context.Context, context.CancelFunc)
		timeout time.Duration
	}{
		{"HandlerContext", config.HandlerContext, config.HTTPHandler},
		{"FlowContext", config.FlowContext, config.Flow},
		{"ConnectorContext", config.ConnectorContext, config.ConnectorAPI},
		{"RetryAttemptContext", config.RetryAttemptContext, config.SingleRetry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.creator(parent)
			defer cancel()

			// Verify deadline exists
			deadline, ok := ctx.Deadline()
			if !ok {
				t.Fatalf("%s should have deadline", tt.name)
			}

			// Verify deadline is approximately correct
			expectedDeadline := time.Now().Add(tt.timeout)
			diff := deadline.Sub(expectedDeadline).Abs()
			if diff > 100*time.Millisecond {
				t.Errorf("%s: deadline diff too large: %v (expected ~%v)",
					tt.name, diff, tt.timeout)
			}
		})
	}
}

func TestTimeoutBudget(t *testing.T) {
	config := DefaultTimeoutConfig()

	// Verify timeout hierarchy relationships
	//
	// Note: ConnectorAPI timeout (30s) is used as HTTP client timeout PER
	// request, not for the total retry loop. The retry loop is bounded by the
	// Flow timeout (50s).
	//
	// Example operation flow:
	//   Flow timeout: 50s (total budget)
	//     ├─ DB query: 5s
	//     ├─ Connector call with retries: ~30-40s
	//     │  ├─ Attempt 1: up to 30s (HTTP timeout)
	//     │  ├─ Backoff: ~100ms
	//     │  ├─ Attempt 2: up to 30s (HTTP timeout)
	//     │  └─ Backoff: ~200ms
	//     └─ Response processing: ~5s

	// Verify SingleRetry timeout is reasonable for individual connector attempts
	if config.SingleRetry < 5*time.Second {
		t.Errorf("SingleRetry (%v) should be >= 5s for reliable connector calls", config.SingleRetry)
	}

	// Verify ConnectorAPI timeout allows for at least one full attempt
	if config.ConnectorAPI < config.SingleRetry {
		t.Errorf("ConnectorAPI (%v) must be >= SingleRetry (%v)",
			config.ConnectorAPI, config.SingleRetry)
	}

	// Verify Flow timeout has buffer for DB + connector + overhead
	minFlowBudget := 5*time.Second + config.ConnectorAPI + 10*time.Second
	if config.Flow < minFlowBudget {
		t.Errorf("Flow timeout (%v) insufficient for typical operations (need >= %v)",
			config.Flow, minFlowBudget)
	}

	// Verify HTTPHandler has buffer beyond Flow timeout
	if config.HTTPHandler <= config.Flow {
		t.Errorf("HTTPHandler (%v) must be > Flow (%v)",
			config.HTTPHandler, config.Flow)
	}
}
