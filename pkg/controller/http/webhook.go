package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultMaxBodySize is the webhook payload limit
const DefaultMaxBodySize = 1 << 20

// WebhookResponse is returned when at least one signal was dispatched
type WebhookResponse struct {
	Success    bool                  `json:"success"`
	DeliveryID string                `json:"deliveryId"`
	Dispatched int                   `json:"dispatched"`
	Results    []*model.ActionResult `json:"results"`
	Details    []string              `json:"details,omitempty"`
}

// ValidationResponse is returned when every decoded signal was rejected
type ValidationResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// WebhookHandler handles chain-data provider webhooks
type WebhookHandler struct {
	providers   interfaces.ChainProviderRegistry
	signalUC    interfaces.SignalUseCase
	maxBodySize int64
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(providers interfaces.ChainProviderRegistry, signalUC interfaces.SignalUseCase, maxBodySize int64) *WebhookHandler {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	return &WebhookHandler{
		providers:   providers,
		signalUC:    signalUC,
		maxBodySize: maxBodySize,
	}
}

// Handle processes webhook requests
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			err := goerr.New(fmt.Sprintf("panic in webhook handler: %v", rec))
			logger.Error("Unhandled fault while processing webhook", "error", err)
			captureError(ctx, err)
			writeError(ctx, w, goerr.New("internal server error"), http.StatusInternalServerError)
		}
	}()

	// Read payload
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("Webhook payload too large", "limit", tooLarge.Limit)
			writeError(ctx, w, goerr.New("payload too large"), http.StatusRequestEntityTooLarge)
			return
		}
		logger.Error("Failed to read request body", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Detect provider
	providerID, ok := h.providers.Detect(r.Header, body)
	if !ok {
		logger.Info("Webhook from unrecognised provider ignored")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	provider, err := h.providers.Get(providerID)
	if err != nil {
		logger.Warn("No adapter for detected provider", "provider", providerID, "error", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Verify signature
	if !provider.VerifySignature(r.Header, body) {
		logger.Warn("Invalid webhook signature", "provider", providerID)
		writeError(ctx, w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	// Parse delivery
	delivery, err := provider.Parse(r.Header, body)
	if err != nil {
		logger.Warn("Failed to parse webhook payload", "provider", providerID, "error", err)
		writeError(ctx, w, goerr.Wrap(err, "invalid payload"), http.StatusBadRequest)
		return
	}
	if !delivery.HasTransactions() {
		logger.Info("Webhook carries no transactions", "delivery_id", delivery.DeliveryID)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Process delivery via UseCase
	report, err := h.signalUC.ProcessDelivery(ctx, delivery)
	if err != nil {
		logger.Error("Failed to process webhook delivery", "delivery_id", delivery.DeliveryID, "error", err)
		captureError(ctx, err)
		writeError(ctx, w, goerr.New("internal server error"), http.StatusInternalServerError)
		return
	}

	details := report.ValidationErrors()
	switch {
	case report.Dispatched() > 0:
		writeJSON(ctx, w, http.StatusOK, &WebhookResponse{
			Success:    true,
			DeliveryID: report.DeliveryID,
			Dispatched: report.Dispatched(),
			Results:    report.Results(),
			Details:    details,
		})
	case len(details) > 0:
		writeJSON(ctx, w, http.StatusUnprocessableEntity, &ValidationResponse{
			Error:   "validation failed",
			Details: details,
		})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
