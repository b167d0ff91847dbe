package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/domain/ports"
)

// AWSConfig contains configuration for the AWS Secrets Manager credential
// store.
type AWSConfig struct {
	Region string
	// Prefix prepended to every secret name, e.g. "payment-connectors".
	Prefix      string
	CacheTTL    time.Duration
	EnableCache bool
}

// DefaultAWSConfig returns default configuration for the AWS store.
func DefaultAWSConfig(region string) *AWSConfig {
	return &AWSConfig{
		Region:      region,
		Prefix:      "payment-connectors",
		CacheTTL:    5 * time.Minute,
		EnableCache: true,
	}
}

// awsSecretPayload is the JSON document stored per merchant/connector pair.
type awsSecretPayload struct {
	AuthType  string `json:"auth_type"`
	APIKey    string `json:"api_key"`
	Key1      string `json:"key1"`
	APISecret string `json:"api_secret"`
}

// AWSAuthStore resolves connector credentials from AWS Secrets Manager.
// Secrets are named {prefix}/connectors/{merchant_id}/{connector}.
type AWSAuthStore struct {
	client *secretsmanager.Client
	config *AWSConfig
	logger *zap.Logger
	cache  *authCache
}

// NewAWSAuthStore creates an AWS Secrets Manager credential store using the
// default credential chain.
func NewAWSAuthStore(ctx context.Context, cfg *AWSConfig, logger *zap.Logger) (*AWSAuthStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	logger.Info("AWS credential store initialized", zap.String("region", cfg.Region))
	return &AWSAuthStore{
		client: secretsmanager.NewFromConfig(awsCfg),
		config: cfg,
		logger: logger,
		cache:  newAuthCache(cfg.CacheTTL, cfg.EnableCache),
	}, nil
}

// Get resolves the credential set for a merchant/connector pair.
func (s *AWSAuthStore) Get(ctx context.Context, merchantID, connector string) (ports.ConnectorAuth, error) {
	cacheKey := merchantID + "/" + connector
	if auth, ok := s.cache.get(cacheKey); ok {
		return auth, nil
	}

	name := fmt.Sprintf("%s/connectors/%s/%s", s.config.Prefix, merchantID, connector)
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		s.logger.Error("failed to read credentials from Secrets Manager",
			zap.String("connector", connector),
			zap.Error(err),
		)
		return ports.ConnectorAuth{}, fmt.Errorf("read credentials: %w", err)
	}
	if out.SecretString == nil {
		return ports.ConnectorAuth{}, fmt.Errorf("credentials not found for %s/%s", merchantID, connector)
	}

	var payload awsSecretPayload
	if err := json.Unmarshal([]byte(*out.SecretString), &payload); err != nil {
		return ports.ConnectorAuth{}, fmt.Errorf("decode credentials: %w", err)
	}
	auth := ports.ConnectorAuth{
		Kind:      ports.AuthKind(payload.AuthType),
		APIKey:    payload.APIKey,
		Key1:      payload.Key1,
		APISecret: payload.APISecret,
	}
	if auth.Kind == "" || auth.APIKey == "" {
		return ports.ConnectorAuth{}, fmt.Errorf("incomplete credentials for %s/%s", merchantID, connector)
	}

	s.cache.set(cacheKey, auth)
	return auth, nil
}
