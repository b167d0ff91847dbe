package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/domain/ports"
)

func TestSend(t *testing.T) {
	t.Run("delivers request and returns raw response", func(t *testing.T) {
		var gotBody []byte
		var gotContentType, gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			gotContentType = r.Header.Get("Content-Type")
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"error": "declined"}`))
		}))
		defer server.Close()

		tr := New(DefaultConfig(), zap.NewNop())
		resp, err := tr.Send(context.Background(), &ports.ConnectorRequest{
			Method:      http.MethodPost,
			URL:         server.URL + "/payments",
			ContentType: ports.ContentTypeJSON,
			Headers:     map[string]string{"Authorization": "Bearer sk_test_1"},
			Body:        []byte(`{"amount": 1050}`),
		})
		require.NoError(t, err)

		// Non-2xx statuses are data, not transport errors.
		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
		assert.Equal(t, `{"error": "declined"}`, string(resp.Body))
		assert.Equal(t, `{"amount": 1050}`, string(gotBody))
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "Bearer sk_test_1", gotAuth)
	})

	t.Run("retries gets on server errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"id": "pi_1"}`))
		}))
		defer server.Close()

		tr := New(DefaultConfig(), zap.NewNop())
		resp, err := tr.Send(context.Background(), &ports.ConnectorRequest{
			Method: http.MethodGet,
			URL:    server.URL + "/payment_intents/pi_1",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("posts are delivered exactly once", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		tr := New(DefaultConfig(), zap.NewNop())
		resp, err := tr.Send(context.Background(), &ports.ConnectorRequest{
			Method: http.MethodPost,
			URL:    server.URL + "/payments",
			Body:   []byte(`{}`),
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("context cancellation stops retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		tr := New(DefaultConfig(), zap.NewNop())
		_, err := tr.Send(ctx, &ports.ConnectorRequest{
			Method: http.MethodGet,
			URL:    server.URL + "/payment_intents/pi_1",
		})
		require.Error(t, err)
	})
}
