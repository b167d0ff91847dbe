package connectors

import (
	"context"

	"github.com/kevin07696/payment-connectors/internal/domain/ports"
)

// Flow names the operations a connector can execute.
type Flow string

const (
	FlowAuthorize         Flow = "authorize"
	FlowCapture           Flow = "capture"
	FlowVoid              Flow = "void"
	FlowRefund            Flow = "refund"
	FlowSync              Flow = "sync"
	FlowAcceptDispute     Flow = "accept_dispute"
	FlowDefendDispute     Flow = "defend_dispute"
	FlowSubmitEvidence    Flow = "submit_evidence"
	FlowPayoutCreate      Flow = "payout_create"
	FlowPayoutFulfill     Flow = "payout_fulfill"
	FlowPayoutCancel      Flow = "payout_cancel"
	FlowPayoutEligibility Flow = "payout_eligibility"
)

// Capabilities declares what one connector instance supports. It replaces
// compile-time feature gates: the set is fixed at construction and checked
// before dispatch.
type Capabilities struct {
	Flows map[Flow]bool
}

// Supports reports whether the flow is in the capability set.
func (c Capabilities) Supports(flow Flow) bool {
	return c.Flows[flow]
}

// Connector executes canonical flows against one processor. Implementations
// are pure transformation layers around the injected Transport: they own
// serialization and normalization but perform no retries and keep no state.
type Connector interface {
	Name() string
	Capabilities() Capabilities

	Authorize(ctx context.Context, req *ports.AuthorizeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)
	Capture(ctx context.Context, req *ports.CaptureRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)
	Void(ctx context.Context, req *ports.VoidRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)
	Refund(ctx context.Context, req *ports.RefundRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)
	Sync(ctx context.Context, req *ports.SyncRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)

	AcceptDispute(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)
	DefendDispute(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)
	SubmitEvidence(ctx context.Context, req *ports.DisputeRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)

	PayoutCreate(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)
	PayoutFulfill(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)
	PayoutCancel(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)
	PayoutEligibility(ctx context.Context, req *ports.PayoutRequest, auth ports.ConnectorAuth) (*ports.FlowResult, error)

	// ParseWebhook classifies and normalizes one inbound notification.
	ParseWebhook(body []byte, headers map[string]string) (*ports.WebhookResult, error)
}
