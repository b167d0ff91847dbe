// Package webhook exposes the inbound notification endpoint.
package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	webhooksvc "github.com/kevin07696/payment-connectors/internal/services/webhook"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// maxBodySize bounds webhook payloads; connector notifications are small.
const maxBodySize = 1 << 20

// Handler serves POST /webhooks/{connector}.
type Handler struct {
	service *webhooksvc.Service
	logger  *zap.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(service *webhooksvc.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the handler on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/webhooks/", h.handle)
}

type webhookResponse struct {
	Event           string `json:"event"`
	ObjectReference string `json:"object_reference,omitempty"`
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	connector := strings.TrimPrefix(r.URL.Path, "/webhooks/")
	if connector == "" || strings.Contains(connector, "/") {
		http.Error(w, "unknown webhook path", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}

	result, err := h.service.Ingest(r.Context(), connector, body, headers)
	if err != nil {
		h.logger.Warn("webhook ingestion failed",
			zap.String("connector", connector),
			zap.Error(err),
		)
		switch {
		case pkgerrors.IsKind(err, pkgerrors.KindInvalidConnectorConfig):
			http.Error(w, "unknown connector", http.StatusNotFound)
		case pkgerrors.IsKind(err, pkgerrors.KindWebhookBodyDecoding):
			http.Error(w, "undecodable webhook body", http.StatusBadRequest)
		case pkgerrors.IsKind(err, pkgerrors.KindNotSupported):
			http.Error(w, "connector delivers no webhooks", http.StatusNotFound)
		default:
			var connErr *pkgerrors.ConnectorError
			if errors.As(err, &connErr) {
				http.Error(w, connErr.Error(), http.StatusBadRequest)
				return
			}
			// Unknown attempt or storage failure: ask the connector to retry.
			http.Error(w, "webhook not applied", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(webhookResponse{
		Event:           string(result.Event),
		ObjectReference: result.ObjectReference,
	})
}
