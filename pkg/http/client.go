package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// HTTPClientConfig holds HTTP client configuration, tuned per traffic
// pattern (processor APIs vs. general use).
type HTTPClientConfig struct {
	// Connection pooling
	MaxIdleConns        int           // Total idle connections across all hosts
	MaxIdleConnsPerHost int           // Idle connections per host
	MaxConnsPerHost     int           // Maximum connections per host (including active)
	IdleConnTimeout     time.Duration // How long idle connections stay alive

	// Timeouts
	DialTimeout           time.Duration // TCP connection timeout
	TLSHandshakeTimeout   time.Duration // TLS handshake timeout
	ResponseHeaderTimeout time.Duration // Waiting for response headers
	ExpectContinueTimeout time.Duration // 100-continue timeout

	// Keep-alive
	DisableKeepAlives bool
	KeepAlive         time.Duration

	// Compression
	DisableCompression bool

	// TLS
	InsecureSkipVerify bool
	MinTLSVersion      uint16
}

// ConnectorClientConfig returns config tuned for payment processor APIs:
// a handful of hosts, sustained concurrency, and processors that can be
// slow to answer.
func ConnectorClientConfig() *HTTPClientConfig {
	return &HTTPClientConfig{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 25,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,

		DialTimeout:           10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second, // processors can be slow
		ExpectContinueTimeout: 1 * time.Second,

		DisableKeepAlives: false,
		KeepAlive:         60 * time.Second,

		DisableCompression: false,

		InsecureSkipVerify: false,
		MinTLSVersion:      tls.VersionTLS12,
	}
}

// DefaultClientConfig returns a balanced configuration for general use.
func DefaultClientConfig() *HTTPClientConfig {
	return &HTTPClientConfig{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,

		DialTimeout:           10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DisableKeepAlives: false,
		KeepAlive:         60 * time.Second,

		DisableCompression: false,

		InsecureSkipVerify: false,
		MinTLSVersion:      tls.VersionTLS12,
	}
}

// NewHTTPClient creates an HTTP client with the given configuration,
// with connection pooling and keep-alive tuned for HTTP/2.
func NewHTTPClient(cfg *HTTPClientConfig, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	transport := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		// Connection pooling - critical for performance
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,

		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		ExpectContinueTimeout: cfg.ExpectContinueTimeout,

		DisableKeepAlives:  cfg.DisableKeepAlives,
		DisableCompression: cfg.DisableCompression,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			MinVersion:         cfg.MinTLSVersion,
			CipherSuites: []uint16{
				tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			},
		},

		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
