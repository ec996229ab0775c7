package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	accounthttp "shopit/internal/account/infrastructure/http"
	"shopit/internal/order/application"
	"shopit/internal/order/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(accounthttp.RequireUser)
		r.Get("/", h.list)
		r.Post("/{id}/cancel", h.cancel)
		r.Post("/{id}/refund", h.refund)
	})
}

type itemResp struct {
	ProductID *int64 `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type orderResp struct {
	ID        string     `json:"id"`
	Total     string     `json:"total"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []itemResp `json:"items"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sess := accounthttp.SessionFrom(r.Context())
	orders, err := h.service.List(r.Context(), sess.UserID)
	if err != nil {
		h.log.Error("order list failed", "user_id", sess.UserID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("orders unavailable"))
		return
	}

	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		resp := orderResp{
			ID:        o.ID,
			Total:     o.Total.StringFixed(2),
			Status:    string(o.Status),
			CreatedAt: o.CreatedAt,
			Items:     make([]itemResp, 0, len(o.Items)),
		}
		for _, it := range o.Items {
			resp.Items = append(resp.Items, itemResp{
				ProductID: it.ProductID,
				Name:      it.Name,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice.StringFixed(2),
			})
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": out})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel, "Order cannot be cancelled in its current status.")
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Refund, "Only completed orders can be refunded.")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, string, int64) error, rejectMsg string) {
	orderID := chi.URLParam(r, "id")
	sess := accounthttp.SessionFrom(r.Context())

	err := op(r.Context(), orderID, sess.UserID)
	switch {
	case errors.Is(err, application.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("order not found"))
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, http.StatusBadRequest, errorBody(rejectMsg))
	case err != nil:
		h.log.Error("order transition failed", "order_id", orderID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("order update failed"))
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "order_id": orderID})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"status": "error", "message": msg}
}
