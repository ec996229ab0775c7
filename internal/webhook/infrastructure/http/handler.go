package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"shopit/internal/checkout/infrastructure/stripe"
	"shopit/internal/webhook/application"
)

const (
	signatureHeader = "Stripe-Signature"
	maxBodyBytes    = 1 << 16
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	secret  string
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, secret string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		secret:  secret,
		tracer:  otel.Tracer("webhook-http"),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/webhooks/payment", h.receive)
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentWebhook")
	defer span.End()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	event, err := stripe.ConstructEvent(payload, r.Header.Get(signatureHeader), h.secret, time.Now())
	if err != nil {
		// Signature and payload failures are client errors with no
		// state change; the processor will not fix them by retrying.
		h.log.Warn("webhook rejected", "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.HandleEvent(ctx, event); err != nil {
		h.log.Error("webhook reconciliation failed", "event_id", event.ID, "err", err)
		http.Error(w, "reconciliation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"received": true})
}
