package ports

import (
	"context"

	"github.com/kevin07696/payment-connectors/internal/domain/models"
)

// AttemptSnapshot is the stored view of an attempt the merge policy needs.
type AttemptSnapshot struct {
	Attempt *models.PaymentAttempt
}

// AttemptStore persists attempt state. Merge must enforce the terminal-state
// invariant: a terminal status is never overwritten, and a non-terminal one
// only advances (models.MergeStatus embodies the policy).
type AttemptStore interface {
	Create(ctx context.Context, attempt *models.PaymentAttempt) error
	Read(ctx context.Context, attemptID string) (*AttemptSnapshot, error)
	// ReadByConnectorTransactionID resolves the attempt a webhook addresses.
	ReadByConnectorTransactionID(ctx context.Context, connector, transactionID string) (*AttemptSnapshot, error)
	Merge(ctx context.Context, attemptID string, status models.AttemptStatus, source models.EventSource, data *models.ResponseData, errResp *models.ErrorResponse) error
}
