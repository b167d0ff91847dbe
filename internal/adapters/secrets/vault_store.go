package secrets

import (
	"context"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/domain/ports"
)

// VaultConfig contains configuration for the HashiCorp Vault credential
// store.
type VaultConfig struct {
	// Vault server address (e.g., "https://vault.example.com:8200")
	Address string

	// Authentication method: "token" or "approle"
	AuthMethod string

	// Token for token authentication
	Token string

	// AppRole credentials (if using AppRole auth)
	RoleID   string
	SecretID string

	// Vault namespace (Vault Enterprise)
	Namespace string

	// KV v2 secrets engine mount path (default: "secret")
	MountPath string

	// Cache TTL
	CacheTTL time.Duration

	// Enable caching
	EnableCache bool

	// TLS configuration
	TLSSkipVerify bool
}

// DefaultVaultConfig returns default configuration for the Vault store.
func DefaultVaultConfig(address string) *VaultConfig {
	return &VaultConfig{
		Address:     address,
		AuthMethod:  "token",
		MountPath:   "secret",
		CacheTTL:    5 * time.Minute,
		EnableCache: true,
	}
}

// VaultAuthStore resolves connector credentials from Vault KV v2. Secrets
// live at connectors/{merchant_id}/{connector} with the fields auth_type,
// api_key, key1, and api_secret.
type VaultAuthStore struct {
	client *vault.Client
	config *VaultConfig
	logger *zap.Logger
	cache  *authCache
}

// NewVaultAuthStore creates and authenticates a Vault credential store.
func NewVaultAuthStore(ctx context.Context, cfg *VaultConfig, logger *zap.Logger) (*VaultAuthStore, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSSkipVerify {
		if err := vaultConfig.ConfigureTLS(&vault.TLSConfig{Insecure: true}); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}
	if err := authenticate(client, cfg); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Vault: %w", err)
	}

	logger.Info("Vault credential store initialized",
		zap.String("address", cfg.Address),
		zap.String("auth_method", cfg.AuthMethod),
		zap.String("mount_path", cfg.MountPath),
	)

	return &VaultAuthStore{
		client: client,
		config: cfg,
		logger: logger,
		cache:  newAuthCache(cfg.CacheTTL, cfg.EnableCache),
	}, nil
}

func authenticate(client *vault.Client, cfg *VaultConfig) error {
	switch cfg.AuthMethod {
	case "token":
		if cfg.Token == "" {
			return fmt.Errorf("token is required for token auth")
		}
		client.SetToken(cfg.Token)
		return nil

	case "approle":
		if cfg.RoleID == "" || cfg.SecretID == "" {
			return fmt.Errorf("role_id and secret_id are required for AppRole auth")
		}
		resp, err := client.Logical().Write("auth/approle/login", map[string]interface{}{
			"role_id":   cfg.RoleID,
			"secret_id": cfg.SecretID,
		})
		if err != nil {
			return fmt.Errorf("AppRole login failed: %w", err)
		}
		if resp.Auth == nil {
			return fmt.Errorf("AppRole login returned no auth info")
		}
		client.SetToken(resp.Auth.ClientToken)
		return nil

	default:
		return fmt.Errorf("unsupported auth method: %s", cfg.AuthMethod)
	}
}

// Get resolves the credential set for a merchant/connector pair.
func (s *VaultAuthStore) Get(ctx context.Context, merchantID, connector string) (ports.ConnectorAuth, error) {
	cacheKey := merchantID + "/" + connector
	if auth, ok := s.cache.get(cacheKey); ok {
		s.logger.Debug("credentials retrieved from cache", zap.String("connector", connector))
		return auth, nil
	}

	path := fmt.Sprintf("%s/data/connectors/%s/%s", s.config.MountPath, merchantID, connector)
	start := time.Now()
	secret, err := s.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		s.logger.Error("failed to read credentials from Vault",
			zap.String("connector", connector),
			zap.Error(err),
		)
		return ports.ConnectorAuth{}, fmt.Errorf("read credentials: %w", err)
	}
	if secret == nil {
		return ports.ConnectorAuth{}, fmt.Errorf("credentials not found for %s/%s", merchantID, connector)
	}

	// KV v2 wraps the payload in a "data" field.
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return ports.ConnectorAuth{}, fmt.Errorf("invalid credential format from Vault")
	}
	auth := ports.ConnectorAuth{
		Kind:      ports.AuthKind(stringField(data, "auth_type")),
		APIKey:    stringField(data, "api_key"),
		Key1:      stringField(data, "key1"),
		APISecret: stringField(data, "api_secret"),
	}
	if auth.Kind == "" || auth.APIKey == "" {
		return ports.ConnectorAuth{}, fmt.Errorf("incomplete credentials for %s/%s", merchantID, connector)
	}

	s.logger.Debug("credentials retrieved from Vault",
		zap.String("connector", connector),
		zap.Duration("elapsed", time.Since(start)),
	)
	s.cache.set(cacheKey, auth)
	return auth, nil
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
