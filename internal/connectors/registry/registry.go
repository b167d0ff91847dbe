// Package registry constructs connectors by name. The switch is closed on
// purpose: adding a connector is a code change here, not a runtime plugin.
package registry

import (
	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/connectors"
	"github.com/kevin07696/payment-connectors/internal/connectors/adyen"
	"github.com/kevin07696/payment-connectors/internal/connectors/bofa"
	"github.com/kevin07696/payment-connectors/internal/connectors/stripe"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// Deps is everything a connector needs at construction time.
type Deps struct {
	Transport   ports.Transport
	Logger      *zap.Logger
	Environment string // "sandbox" or "production"
}

// Names lists the connectors this build knows about.
func Names() []string {
	return []string{"adyen", "stripe", "bankofamerica"}
}

// New constructs the named connector. Unknown names are a configuration
// error, not a panic.
func New(name string, deps Deps) (connectors.Connector, error) {
	switch name {
	case "adyen":
		return adyen.New(adyen.DefaultConfig(deps.Environment), deps.Transport, deps.Logger), nil
	case "stripe":
		return stripe.New(stripe.DefaultConfig(), deps.Transport, deps.Logger), nil
	case "bankofamerica":
		return bofa.New(bofa.DefaultConfig(deps.Environment), deps.Transport, deps.Logger), nil
	}
	return nil, pkgerrors.NewInvalidConnectorConfig("connector " + name)
}

// Registry holds the constructed connector set for dispatch by name.
type Registry struct {
	connectors map[string]connectors.Connector
}

// NewRegistry constructs every known connector with shared deps.
func NewRegistry(deps Deps) (*Registry, error) {
	set := make(map[string]connectors.Connector, len(Names()))
	for _, name := range Names() {
		conn, err := New(name, deps)
		if err != nil {
			return nil, err
		}
		set[name] = conn
	}
	return &Registry{connectors: set}, nil
}

// Get returns the named connector.
func (r *Registry) Get(name string) (connectors.Connector, error) {
	conn, ok := r.connectors[name]
	if !ok {
		return nil, pkgerrors.NewInvalidConnectorConfig("connector " + name)
	}
	return conn, nil
}
