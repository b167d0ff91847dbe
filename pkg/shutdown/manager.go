// Package shutdown coordinates graceful teardown on SIGINT/SIGTERM.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	shutdownDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shutdown_duration_seconds",
		Help:    "Total time taken to shut down gracefully",
		Buckets: []float64{1, 5, 10, 15, 20, 25, 30},
	})

	shutdownErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shutdown_errors_total",
		Help: "Shutdown errors by component",
	}, []string{"component"})
)

// Func tears down one component. The context carries the overall shutdown
// deadline.
type Func func(context.Context) error

type component struct {
	name string
	fn   Func
}

// Manager runs registered teardown functions in reverse registration order,
// so servers stop accepting work before the stores they depend on close.
type Manager struct {
	logger  *zap.Logger
	timeout time.Duration

	mu         sync.Mutex
	components []component
}

func NewManager(logger *zap.Logger, timeout time.Duration) *Manager {
	return &Manager{logger: logger, timeout: timeout}
}

// Register adds a teardown function. Register dependencies first: the pool
// before the servers that use it.
func (m *Manager) Register(name string, fn Func) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component{name: name, fn: fn})
}

// RegisterServer registers anything with an http.Server-style Shutdown.
func (m *Manager) RegisterServer(name string, srv interface{ Shutdown(context.Context) error }) {
	m.Register(name, srv.Shutdown)
}

// RegisterCloser registers a component whose Close cannot fail, like a pgx
// pool.
func (m *Manager) RegisterCloser(name string, close func()) {
	m.Register(name, func(context.Context) error {
		close()
		return nil
	})
}

// Wait blocks until SIGINT or SIGTERM, then tears everything down.
func (m *Manager) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	m.logger.Info("shutdown signal received",
		zap.String("signal", sig.String()),
		zap.Duration("timeout", m.timeout),
	)
	m.shutdown()
}

func (m *Manager) shutdown() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.Lock()
	components := make([]component, len(m.components))
	copy(components, m.components)
	m.mu.Unlock()

	// Reverse order. A timed-out context is still passed to the remaining
	// components so they can bail out on their own terms.
	failed := 0
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		componentStart := time.Now()
		if err := c.fn(ctx); err != nil {
			failed++
			shutdownErrors.WithLabelValues(c.name).Inc()
			m.logger.Error("component shutdown failed",
				zap.String("component", c.name),
				zap.Error(err),
			)
			continue
		}
		m.logger.Debug("component shut down",
			zap.String("component", c.name),
			zap.Duration("elapsed", time.Since(componentStart)),
		)
	}

	elapsed := time.Since(start)
	shutdownDuration.Observe(elapsed.Seconds())
	if failed > 0 {
		m.logger.Error("shutdown completed with errors",
			zap.Int("failed", failed),
			zap.Duration("elapsed", elapsed),
		)
		return
	}
	m.logger.Info("shutdown complete", zap.Duration("elapsed", elapsed))
}
