package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	accountapp "shopit/internal/account/application"
	accounthttp "shopit/internal/account/infrastructure/http"
	"shopit/internal/account/domain"
	"shopit/internal/checkout/application"
)

type Handler struct {
	log      *slog.Logger
	service  *application.Service
	sessions accountapp.SessionStore
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, sessions accountapp.SessionStore) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		tracer:   otel.Tracer("checkout-http"),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.With(accounthttp.RequireUser).Post("/checkout/session", h.createSession)
	r.Get("/checkout/success", h.success)
	r.Get("/checkout/cancelled", h.cancelled)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateCheckoutSession")
	defer span.End()

	sess := accounthttp.SessionFrom(ctx)
	checkout, err := h.service.Create(ctx, sess.ID, sess.UserID)
	if errors.Is(err, application.ErrEmptyCart) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "cart is empty"})
		return
	}
	if err != nil {
		h.log.Error("checkout session creation failed", "user_id", sess.UserID, "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"status": "error", "message": "payment processor unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": checkout.ID, "url": checkout.URL})
}

func (h *Handler) success(w http.ResponseWriter, r *http.Request) {
	sess := accounthttp.SessionFrom(r.Context())
	if err := h.service.Success(r.Context(), sess.ID); err != nil {
		h.log.Error("cart clear after checkout failed", "session_id", sess.ID, "err", err)
	}
	h.flash(r, sess, domain.Flash{Type: "success", Text: "Payment successful! Thank you for your order."})

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) cancelled(w http.ResponseWriter, r *http.Request) {
	sess := accounthttp.SessionFrom(r.Context())
	h.flash(r, sess, domain.Flash{Type: "danger", Text: "Payment was cancelled. Please try again."})

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) flash(r *http.Request, sess domain.Session, f domain.Flash) {
	sess.Flash = &f
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.log.Error("flash save failed", "session_id", sess.ID, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
