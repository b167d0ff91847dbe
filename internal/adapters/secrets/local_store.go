package secrets

import (
	"context"
	"fmt"
	"sync"

	"github.com/kevin07696/payment-connectors/internal/domain/ports"
)

// LocalAuthStore is an in-memory credential store for development and tests.
type LocalAuthStore struct {
	mu    sync.RWMutex
	creds map[string]ports.ConnectorAuth
}

// NewLocalAuthStore creates an empty local store.
func NewLocalAuthStore() *LocalAuthStore {
	return &LocalAuthStore{creds: make(map[string]ports.ConnectorAuth)}
}

// Set stores credentials for a merchant/connector pair.
func (s *LocalAuthStore) Set(merchantID, connector string, auth ports.ConnectorAuth) {
	s.mu.Lock()
	s.creds[merchantID+"/"+connector] = auth
	s.mu.Unlock()
}

// Get resolves the credential set for a merchant/connector pair.
func (s *LocalAuthStore) Get(ctx context.Context, merchantID, connector string) (ports.ConnectorAuth, error) {
	s.mu.RLock()
	auth, ok := s.creds[merchantID+"/"+connector]
	s.mu.RUnlock()
	if !ok {
		return ports.ConnectorAuth{}, fmt.Errorf("credentials not found for %s/%s", merchantID, connector)
	}
	return auth, nil
}
