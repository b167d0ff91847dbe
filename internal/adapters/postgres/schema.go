package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const attemptsSchemaSQL = `
CREATE TABLE IF NOT EXISTS payment_attempts (
	id                       TEXT PRIMARY KEY,
	merchant_id              TEXT NOT NULL,
	customer_id              TEXT NOT NULL DEFAULT '',
	order_id                 TEXT NOT NULL DEFAULT '',
	connector                TEXT NOT NULL,
	amount_minor             BIGINT NOT NULL,
	currency                 TEXT NOT NULL,
	status                   TEXT NOT NULL,
	capture_method           TEXT NOT NULL DEFAULT '',
	auth_type                TEXT NOT NULL DEFAULT '',
	setup_future_usage       TEXT NOT NULL DEFAULT '',
	off_session              BOOLEAN NOT NULL DEFAULT FALSE,
	mandate_id               TEXT NOT NULL DEFAULT '',
	connector_transaction_id TEXT NOT NULL DEFAULT '',
	return_url               TEXT NOT NULL DEFAULT '',
	statement_descriptor     TEXT NOT NULL DEFAULT '',
	metadata                 JSONB,
	error_code               TEXT,
	error_message            TEXT,
	error_reason             TEXT,
	created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_payment_attempts_connector_txn
	ON payment_attempts (connector, connector_transaction_id);

CREATE INDEX IF NOT EXISTS idx_payment_attempts_merchant_order
	ON payment_attempts (merchant_id, order_id);
`

// EnsureSchema creates the attempt table and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, attemptsSchemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
