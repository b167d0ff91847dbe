// Package webhook ingests connector notifications: classification through
// the connector's parser, then a policy-gated merge into stored attempts.
package webhook

import (
	"context"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/connectors/registry"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	"github.com/kevin07696/payment-connectors/pkg/observability"
)

// Service turns raw webhook bodies into attempt updates.
type Service struct {
	registry *registry.Registry
	attempts ports.AttemptStore
	logger   *zap.Logger
}

// NewService creates a webhook ingestion service.
func NewService(reg *registry.Registry, attempts ports.AttemptStore, logger *zap.Logger) *Service {
	return &Service{registry: reg, attempts: attempts, logger: logger}
}

// Ingest classifies one inbound notification and applies it. Unsupported
// events are acknowledged without effect so the connector stops re-delivering
// them; a merge rejected by the policy is likewise not an error.
func (s *Service) Ingest(ctx context.Context, connectorName string, body []byte, headers map[string]string) (*ports.WebhookResult, error) {
	conn, err := s.registry.Get(connectorName)
	if err != nil {
		return nil, err
	}
	result, err := conn.ParseWebhook(body, headers)
	if err != nil {
		return nil, err
	}
	observability.ObserveWebhookEvent(connectorName, string(result.Event))

	if result.Event == models.EventNotSupported {
		s.logger.Info("ignoring unsupported webhook event",
			zap.String("connector", connectorName),
			zap.String("transaction_id", result.ConnectorTransactionID),
		)
		return result, nil
	}

	if result.Dispute != nil {
		// Dispute state machines live outside the attempt; the caller routes
		// the dispute payload onward.
		s.logger.Info("dispute webhook received",
			zap.String("connector", connectorName),
			zap.String("dispute_id", result.Dispute.ConnectorDisputeID),
			zap.String("event", string(result.Event)),
			zap.String("stage", string(result.Dispute.Stage)),
		)
		return result, nil
	}

	if result.Status == "" && result.Error == nil {
		return result, nil
	}

	snapshot, err := s.attempts.ReadByConnectorTransactionID(ctx, connectorName, result.ConnectorTransactionID)
	if err != nil {
		s.logger.Warn("webhook addresses unknown attempt",
			zap.String("connector", connectorName),
			zap.String("transaction_id", result.ConnectorTransactionID),
			zap.Error(err),
		)
		return result, err
	}

	attempt := snapshot.Attempt
	status := result.Status
	// Webhooks cannot see the capture method; the parser reports the
	// automatic-capture reading and the stored attempt corrects it.
	if status == models.StatusCharged && attempt.CaptureMethod.IsManual() && attempt.Status != models.StatusCharged {
		if result.Event == models.EventPaymentIntentSuccess {
			status = models.StatusAuthorized
		}
	}

	current := attempt.Status
	_, accepted := models.MergeStatus(current, status, models.SourceWebhook)
	observability.ObserveStatusMerge(string(models.SourceWebhook), accepted)

	if err := s.attempts.Merge(ctx, attempt.ID, status, models.SourceWebhook, result.Response, result.Error); err != nil {
		return result, err
	}
	s.logger.Info("webhook applied",
		zap.String("connector", connectorName),
		zap.String("attempt_id", attempt.ID),
		zap.String("event", string(result.Event)),
		zap.String("status", string(status)),
		zap.Bool("advanced", accepted),
	)
	return result, nil
}
