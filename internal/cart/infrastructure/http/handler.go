package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	accountapp "shopit/internal/account/application"
	accounthttp "shopit/internal/account/infrastructure/http"
	"shopit/internal/cart/application"
	cartdom "shopit/internal/cart/domain"
)

type Handler struct {
	log      *slog.Logger
	service  *application.Service
	sessions accountapp.SessionStore
}

func NewHandler(log *slog.Logger, service *application.Service, sessions accountapp.SessionStore) *Handler {
	return &Handler{log: log, service: service, sessions: sessions}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		// Mutations are POST-only; anything else gets the generic
		// failure body the storefront's cart script expects.
		r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"status": "failed"})
		})
		r.Post("/add", h.add)
		r.Post("/remove", h.remove)
		r.Get("/", h.view)
	})
}

type mutateReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  *int  `json:"quantity"`
}

type summaryResp struct {
	Status          string `json:"status"`
	CartCount       int    `json:"cart_count"`
	ProductSubtotal string `json:"product_subtotal"`
	OverallSubtotal string `json:"overall_subtotal"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req mutateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 {
		writeJSON(w, http.StatusBadRequest, failedBody("missing or invalid product id"))
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	sess := accounthttp.SessionFrom(r.Context())
	sum, err := h.service.Add(r.Context(), sess.ID, req.ProductID, quantity)
	switch {
	case errors.Is(err, application.ErrProductNotFound):
		writeJSON(w, http.StatusBadRequest, failedBody("missing or invalid product id"))
		return
	case errors.Is(err, cartdom.ErrInvalidQuantity):
		writeJSON(w, http.StatusBadRequest, failedBody("quantity must be at least 1"))
		return
	case err != nil:
		h.log.Error("cart add failed", "product_id", req.ProductID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("cart unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, summaryResp{
		Status:          "success",
		CartCount:       sum.CartCount,
		ProductSubtotal: sum.ProductSubtotal.StringFixed(2),
		OverallSubtotal: sum.OverallSubtotal.StringFixed(2),
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	var req mutateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 {
		writeJSON(w, http.StatusBadRequest, failedBody("missing or invalid product id"))
		return
	}

	sess := accounthttp.SessionFrom(r.Context())
	sum, err := h.service.Remove(r.Context(), sess.ID, req.ProductID)
	switch {
	case errors.Is(err, application.ErrNotInCart):
		writeJSON(w, http.StatusBadRequest, failedBody("product not in cart"))
		return
	case err != nil:
		h.log.Error("cart remove failed", "product_id", req.ProductID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("cart unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, summaryResp{
		Status:          "success",
		CartCount:       sum.CartCount,
		ProductSubtotal: sum.ProductSubtotal.StringFixed(2),
		OverallSubtotal: sum.OverallSubtotal.StringFixed(2),
	})
}

type entryResp struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Stock     int    `json:"stock"`
	Subtotal  string `json:"subtotal"`
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	sess := accounthttp.SessionFrom(r.Context())
	c, err := h.service.View(r.Context(), sess.ID)
	if err != nil {
		h.log.Error("cart view failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("cart unavailable"))
		return
	}

	entries := make([]entryResp, 0, len(c.Entries))
	for _, e := range c.Entries {
		entries = append(entries, entryResp{
			ProductID: e.ProductID,
			Name:      e.Name,
			UnitPrice: e.UnitPrice.StringFixed(2),
			Quantity:  e.Quantity,
			Stock:     e.Stock,
			Subtotal:  e.Subtotal.StringFixed(2),
		})
	}

	body := map[string]any{
		"entries":          entries,
		"cart_count":       c.Count(),
		"overall_subtotal": c.Subtotal().StringFixed(2),
	}

	// One-shot flash left by the checkout redirect handlers.
	if sess.Flash != nil {
		body["message"] = sess.Flash
		sess.Flash = nil
		if err := h.sessions.Save(r.Context(), sess); err != nil {
			h.log.Error("flash clear failed", "session_id", sess.ID, "err", err)
		}
	}

	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func failedBody(msg string) map[string]string {
	return map[string]string{"status": "failed", "message": msg}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"status": "error", "message": msg}
}
