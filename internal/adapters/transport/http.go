// Package transport implements the outbound HTTP transport connectors send
// through.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkghttp "github.com/kevin07696/payment-connectors/pkg/http"
	"github.com/kevin07696/payment-connectors/pkg/resilience"
)

// Config tunes the HTTP transport.
type Config struct {
	Timeout time.Duration
	// MaxRetries bounds re-sends of safe requests. Non-idempotent POSTs are
	// never retried after bytes reach the processor.
	MaxRetries int
}

// DefaultConfig returns the standard transport tuning.
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second, MaxRetries: 3}
}

// HTTPTransport implements ports.Transport on net/http with pooled
// connections and exponential backoff for retryable failures.
type HTTPTransport struct {
	client  *http.Client
	config  Config
	backoff resilience.BackoffStrategy
	logger  *zap.Logger
}

// New creates an HTTP transport with connector-tuned pooling.
func New(cfg Config, logger *zap.Logger) *HTTPTransport {
	return &HTTPTransport{
		client:  pkghttp.NewHTTPClient(pkghttp.ConnectorClientConfig(), cfg.Timeout),
		config:  cfg,
		backoff: resilience.DefaultExponentialBackoff(),
		logger:  logger,
	}
}

// Send performs one connector call. GETs retry on network failure and 5xx;
// everything else gets exactly one delivery attempt.
func (t *HTTPTransport) Send(ctx context.Context, req *ports.ConnectorRequest) (*ports.ConnectorResponse, error) {
	retries := 0
	if req.Method == http.MethodGet {
		retries = t.config.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			delay := t.backoff.NextDelay(attempt - 1)
			t.logger.Debug("retrying connector request",
				zap.String("url", req.URL),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := t.do(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 && attempt < retries {
			lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}

func (t *HTTPTransport) do(ctx context.Context, req *ports.ConnectorRequest) (*ports.ConnectorResponse, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if len(req.Body) > 0 {
		httpReq.Header.Set("Content-Type", string(req.ContentType))
	}
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &ports.ConnectorResponse{StatusCode: httpResp.StatusCode, Body: respBody}, nil
}
