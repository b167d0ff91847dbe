// Package gateway orchestrates connector flows: credential resolution,
// capability checks, dispatch, and persistence of the normalized outcome.
package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/connectors"
	"github.com/kevin07696/payment-connectors/internal/connectors/registry"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
	"github.com/kevin07696/payment-connectors/pkg/observability"
)

// Service executes canonical flows against connectors and owns the attempt
// lifecycle around them.
type Service struct {
	registry  *registry.Registry
	authStore ports.ConnectorAuthStore
	attempts  ports.AttemptStore
	logger    *zap.Logger
}

// NewService creates a gateway service.
func NewService(reg *registry.Registry, authStore ports.ConnectorAuthStore, attempts ports.AttemptStore, logger *zap.Logger) *Service {
	return &Service{registry: reg, authStore: authStore, attempts: attempts, logger: logger}
}

// mergeSource maps a flow onto the merge policy's source taxonomy.
func mergeSource(flow connectors.Flow) models.EventSource {
	switch flow {
	case connectors.FlowAuthorize:
		return models.SourceAuthorizeResponse
	case connectors.FlowSync:
		return models.SourceSyncResponse
	}
	return models.SourceCaptureResponse
}

// prepare resolves the connector and credentials and enforces the capability
// gate shared by every flow.
func (s *Service) prepare(ctx context.Context, merchantID, connectorName string, flow connectors.Flow) (connectors.Connector, ports.ConnectorAuth, error) {
	conn, err := s.registry.Get(connectorName)
	if err != nil {
		return nil, ports.ConnectorAuth{}, err
	}
	if !conn.Capabilities().Supports(flow) {
		return nil, ports.ConnectorAuth{}, pkgerrors.NewFlowNotSupported(connectorName, string(flow))
	}
	auth, err := s.authStore.Get(ctx, merchantID, connectorName)
	if err != nil {
		return nil, ports.ConnectorAuth{}, err
	}
	return conn, auth, nil
}

// persist merges the flow outcome into the stored attempt.
func (s *Service) persist(ctx context.Context, attemptID string, flow connectors.Flow, result *ports.FlowResult) {
	if result == nil {
		return
	}
	source := mergeSource(flow)
	if err := s.attempts.Merge(ctx, attemptID, result.Status, source, result.Response, result.Error); err != nil {
		// The connector outcome is already final; a persistence failure is an
		// operational problem, not a payment one.
		s.logger.Error("failed to persist flow outcome",
			zap.String("attempt_id", attemptID),
			zap.String("flow", string(flow)),
			zap.Error(err),
		)
	}
}

func (s *Service) run(ctx context.Context, attempt *models.PaymentAttempt, flow connectors.Flow, call func(connectors.Connector, ports.ConnectorAuth) (*ports.FlowResult, error)) (*ports.FlowResult, error) {
	done := observability.FlowStarted()
	defer done()
	start := time.Now()

	conn, auth, err := s.prepare(ctx, attempt.MerchantID, attempt.Connector, flow)
	if err != nil {
		observability.ObserveFlow(attempt.Connector, string(flow), "error", time.Since(start))
		return nil, err
	}
	result, err := call(conn, auth)
	if err != nil {
		observability.ObserveFlow(attempt.Connector, string(flow), "error", time.Since(start))
		return nil, err
	}
	observability.ObserveFlow(attempt.Connector, string(flow), string(result.Status), time.Since(start))
	s.persist(ctx, attempt.ID, flow, result)
	return result, nil
}

// Authorize creates the attempt and executes the authorize flow.
func (s *Service) Authorize(ctx context.Context, req *ports.AuthorizeRequest) (*ports.FlowResult, error) {
	attempt := req.Attempt
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.Status == "" {
		attempt.Status = models.StatusPending
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}
	s.logger.Info("authorizing payment",
		zap.String("attempt_id", attempt.ID),
		zap.String("connector", attempt.Connector),
		zap.String("payment_method", string(req.PaymentMethod.Kind())),
	)
	return s.run(ctx, attempt, connectors.FlowAuthorize, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.Authorize(ctx, req, auth)
	})
}

// Capture executes the capture flow.
func (s *Service) Capture(ctx context.Context, req *ports.CaptureRequest) (*ports.FlowResult, error) {
	return s.run(ctx, req.Attempt, connectors.FlowCapture, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.Capture(ctx, req, auth)
	})
}

// Void executes the void flow.
func (s *Service) Void(ctx context.Context, req *ports.VoidRequest) (*ports.FlowResult, error) {
	return s.run(ctx, req.Attempt, connectors.FlowVoid, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.Void(ctx, req, auth)
	})
}

// Refund executes the refund flow.
func (s *Service) Refund(ctx context.Context, req *ports.RefundRequest) (*ports.FlowResult, error) {
	return s.run(ctx, req.Attempt, connectors.FlowRefund, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.Refund(ctx, req, auth)
	})
}

// Sync polls the connector and folds the result into the attempt.
func (s *Service) Sync(ctx context.Context, req *ports.SyncRequest) (*ports.FlowResult, error) {
	return s.run(ctx, req.Attempt, connectors.FlowSync, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.Sync(ctx, req, auth)
	})
}

// AcceptDispute concedes a dispute. Dispute flows do not touch attempt
// status; their state lives on the dispute.
func (s *Service) AcceptDispute(ctx context.Context, req *ports.DisputeRequest) (*ports.FlowResult, error) {
	return s.disputeFlow(ctx, req, connectors.FlowAcceptDispute, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.AcceptDispute(ctx, req, auth)
	})
}

// DefendDispute contests a dispute.
func (s *Service) DefendDispute(ctx context.Context, req *ports.DisputeRequest) (*ports.FlowResult, error) {
	return s.disputeFlow(ctx, req, connectors.FlowDefendDispute, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.DefendDispute(ctx, req, auth)
	})
}

// SubmitEvidence uploads dispute defense documents.
func (s *Service) SubmitEvidence(ctx context.Context, req *ports.DisputeRequest) (*ports.FlowResult, error) {
	return s.disputeFlow(ctx, req, connectors.FlowSubmitEvidence, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.SubmitEvidence(ctx, req, auth)
	})
}

func (s *Service) disputeFlow(ctx context.Context, req *ports.DisputeRequest, flow connectors.Flow, call func(connectors.Connector, ports.ConnectorAuth) (*ports.FlowResult, error)) (*ports.FlowResult, error) {
	done := observability.FlowStarted()
	defer done()
	start := time.Now()

	conn, auth, err := s.prepare(ctx, req.Attempt.MerchantID, req.Attempt.Connector, flow)
	if err != nil {
		observability.ObserveFlow(req.Attempt.Connector, string(flow), "error", time.Since(start))
		return nil, err
	}
	result, err := call(conn, auth)
	if err != nil {
		observability.ObserveFlow(req.Attempt.Connector, string(flow), "error", time.Since(start))
		return nil, err
	}
	observability.ObserveFlow(req.Attempt.Connector, string(flow), string(result.Status), time.Since(start))
	return result, nil
}

// PayoutCreate executes the payout creation flow.
func (s *Service) PayoutCreate(ctx context.Context, req *ports.PayoutRequest) (*ports.FlowResult, error) {
	return s.payoutFlow(ctx, req, connectors.FlowPayoutCreate, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.PayoutCreate(ctx, req, auth)
	})
}

// PayoutFulfill confirms a created payout.
func (s *Service) PayoutFulfill(ctx context.Context, req *ports.PayoutRequest) (*ports.FlowResult, error) {
	return s.payoutFlow(ctx, req, connectors.FlowPayoutFulfill, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.PayoutFulfill(ctx, req, auth)
	})
}

// PayoutCancel cancels a created payout.
func (s *Service) PayoutCancel(ctx context.Context, req *ports.PayoutRequest) (*ports.FlowResult, error) {
	return s.payoutFlow(ctx, req, connectors.FlowPayoutCancel, func(conn connectors.Connector, auth ports.ConnectorAuth) (*ports.FlowResult, error) {
		return conn.PayoutCancel(ctx, req, auth)
	})
}

func (s *Service) payoutFlow(ctx context.Context, req *ports.PayoutRequest, flow connectors.Flow, call func(connectors.Connector, ports.ConnectorAuth) (*ports.FlowResult, error)) (*ports.FlowResult, error) {
	done := observability.FlowStarted()
	defer done()
	start := time.Now()

	conn, auth, err := s.prepare(ctx, req.Attempt.MerchantID, req.Attempt.Connector, flow)
	if err != nil {
		observability.ObserveFlow(req.Attempt.Connector, string(flow), "error", time.Since(start))
		return nil, err
	}
	result, err := call(conn, auth)
	if err != nil {
		observability.ObserveFlow(req.Attempt.Connector, string(flow), "error", time.Since(start))
		return nil, err
	}
	observability.ObserveFlow(req.Attempt.Connector, string(flow), string(result.Status), time.Since(start))
	return result, nil
}
