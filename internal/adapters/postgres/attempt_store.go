package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
)

// ErrAttemptNotFound is returned when no attempt matches the lookup.
var ErrAttemptNotFound = errors.New("payment attempt not found")

// AttemptStore implements ports.AttemptStore on PostgreSQL. Merge runs the
// status merge policy inside a row-locked transaction so concurrent webhook
// and response writers serialize on the attempt row.
type AttemptStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewAttemptStore creates an attempt store.
func NewAttemptStore(pool *pgxpool.Pool, logger *zap.Logger) *AttemptStore {
	return &AttemptStore{pool: pool, logger: logger}
}

const createAttemptSQL = `
INSERT INTO payment_attempts (
	id, merchant_id, customer_id, order_id, connector,
	amount_minor, currency, status, capture_method, auth_type,
	setup_future_usage, off_session, mandate_id, connector_transaction_id,
	return_url, statement_descriptor, metadata, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now(), now())`

// Create inserts a new attempt row.
func (s *AttemptStore) Create(ctx context.Context, attempt *models.PaymentAttempt) error {
	metadata, err := json.Marshal(attempt.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = s.pool.Exec(ctx, createAttemptSQL,
		attempt.ID, attempt.MerchantID, attempt.CustomerID, attempt.OrderID, attempt.Connector,
		int64(attempt.AmountMinor), attempt.Currency, string(attempt.Status),
		string(attempt.CaptureMethod), string(attempt.AuthType),
		string(attempt.SetupFutureUsage), attempt.OffSession, attempt.MandateID,
		attempt.ConnectorTransactionID, attempt.ReturnURL, attempt.StatementDescriptor, metadata,
	)
	if err != nil {
		return fmt.Errorf("create attempt: %w", err)
	}
	return nil
}

const readAttemptSQL = `
SELECT id, merchant_id, customer_id, order_id, connector,
	amount_minor, currency, status, capture_method, auth_type,
	setup_future_usage, off_session, mandate_id, connector_transaction_id,
	return_url, statement_descriptor, metadata, created_at, updated_at
FROM payment_attempts WHERE `

func (s *AttemptStore) readWhere(ctx context.Context, where string, args ...any) (*ports.AttemptSnapshot, error) {
	row := s.pool.QueryRow(ctx, readAttemptSQL+where, args...)
	attempt, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("read attempt: %w", err)
	}
	return &ports.AttemptSnapshot{Attempt: attempt}, nil
}

// Read fetches an attempt by id.
func (s *AttemptStore) Read(ctx context.Context, attemptID string) (*ports.AttemptSnapshot, error) {
	return s.readWhere(ctx, "id = $1", attemptID)
}

// ReadByConnectorTransactionID resolves the attempt a webhook addresses.
func (s *AttemptStore) ReadByConnectorTransactionID(ctx context.Context, connector, transactionID string) (*ports.AttemptSnapshot, error) {
	return s.readWhere(ctx, "connector = $1 AND connector_transaction_id = $2", connector, transactionID)
}

func scanAttempt(row pgx.Row) (*models.PaymentAttempt, error) {
	var a models.PaymentAttempt
	var amountMinor int64
	var status, captureMethod, authType, futureUsage string
	var metadata []byte
	err := row.Scan(
		&a.ID, &a.MerchantID, &a.CustomerID, &a.OrderID, &a.Connector,
		&amountMinor, &a.Currency, &status, &captureMethod, &authType,
		&futureUsage, &a.OffSession, &a.MandateID, &a.ConnectorTransactionID,
		&a.ReturnURL, &a.StatementDescriptor, &metadata, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.AmountMinor = models.MinorUnit(amountMinor)
	a.Status = models.AttemptStatus(status)
	a.CaptureMethod = models.CaptureMethod(captureMethod)
	a.AuthType = models.AuthenticationType(authType)
	a.SetupFutureUsage = models.FutureUsage(futureUsage)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &a, nil
}

const lockAttemptSQL = `
SELECT status, connector_transaction_id, mandate_id
FROM payment_attempts WHERE id = $1 FOR UPDATE`

const mergeAttemptSQL = `
UPDATE payment_attempts SET
	status = $2,
	connector_transaction_id = $3,
	mandate_id = $4,
	error_code = $5,
	error_message = $6,
	error_reason = $7,
	updated_at = now()
WHERE id = $1`

// Merge applies one status update under the cross-source merge policy. The
// row is locked for the duration so two writers cannot interleave their
// read-merge-write cycles.
func (s *AttemptStore) Merge(ctx context.Context, attemptID string, status models.AttemptStatus, source models.EventSource, data *models.ResponseData, errResp *models.ErrorResponse) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin merge: %w", err)
	}
	defer tx.Rollback(ctx)

	var current, transactionID, mandateID string
	if err := tx.QueryRow(ctx, lockAttemptSQL, attemptID).Scan(&current, &transactionID, &mandateID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAttemptNotFound
		}
		return fmt.Errorf("lock attempt: %w", err)
	}

	merged, changed := models.MergeStatus(models.AttemptStatus(current), status, source)
	if !changed && data == nil && errResp == nil {
		return tx.Commit(ctx)
	}

	if data != nil {
		if data.ConnectorTransactionID != "" {
			transactionID = data.ConnectorTransactionID
		}
		if data.Mandate != nil && data.Mandate.ConnectorMandateID != "" {
			mandateID = data.Mandate.ConnectorMandateID
		}
	}
	var errCode, errMessage, errReason *string
	if errResp != nil {
		errCode, errMessage = &errResp.Code, &errResp.Message
		errReason = errResp.Reason
		if errResp.ConnectorTransactionID != "" && transactionID == "" {
			transactionID = errResp.ConnectorTransactionID
		}
	}

	if _, err := tx.Exec(ctx, mergeAttemptSQL, attemptID, string(merged), transactionID, mandateID, errCode, errMessage, errReason); err != nil {
		return fmt.Errorf("merge attempt: %w", err)
	}
	if changed {
		s.logger.Debug("attempt status merged",
			zap.String("attempt_id", attemptID),
			zap.String("from", current),
			zap.String("to", string(merged)),
			zap.String("source", string(source)),
		)
	}
	return tx.Commit(ctx)
}
