package secrets

import (
	"sync"
	"time"

	"github.com/kevin07696/payment-connectors/internal/domain/ports"
)

type cacheEntry struct {
	auth      ports.ConnectorAuth
	expiresAt time.Time
}

// authCache is a TTL cache for resolved credentials. Credential lookups sit
// on the hot path of every flow; the TTL bounds how long a rotated secret
// keeps being served.
type authCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	enabled bool
}

func newAuthCache(ttl time.Duration, enabled bool) *authCache {
	return &authCache{entries: make(map[string]cacheEntry), ttl: ttl, enabled: enabled}
}

func (c *authCache) get(key string) (ports.ConnectorAuth, bool) {
	if !c.enabled {
		return ports.ConnectorAuth{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return ports.ConnectorAuth{}, false
	}
	return entry.auth, true
}

func (c *authCache) set(key string, auth ports.ConnectorAuth) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{auth: auth, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
