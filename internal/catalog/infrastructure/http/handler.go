package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shopit/internal/catalog/application"
	"shopit/internal/catalog/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/category/{slug}", h.byCategory)
	r.Get("/product/{id}", h.productDetail)
}

type categoryResp struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

type productResp struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Stock       int      `json:"stock"`
	Image       string   `json:"image,omitempty"`
	Image2      string   `json:"image_2,omitempty"`
	CategoryID  *int64   `json:"category_id,omitempty"`
	Gallery     []string `json:"gallery,omitempty"`
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	categories, products, err := h.service.Home(r.Context())
	if err != nil {
		h.log.Error("home query failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories": toCategories(categories),
		"products":   toProducts(products),
	})
}

func (h *Handler) byCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	category, products, err := h.service.ProductsByCategory(r.Context(), slug)
	if errors.Is(err, application.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Error("category query failed", "slug", slug, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"category": toCategory(category),
		"products": toProducts(products),
	})
}

func (h *Handler) productDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	product, gallery, err := h.service.ProductDetail(r.Context(), id)
	if errors.Is(err, application.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Error("product query failed", "product_id", id, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := toProduct(product)
	for _, g := range gallery {
		resp.Gallery = append(resp.Gallery, g.Image)
	}
	writeJSON(w, http.StatusOK, resp)
}

func toCategory(c domain.Category) categoryResp {
	return categoryResp{ID: c.ID, Name: c.Name, Slug: c.Slug, Image: c.Image}
}

func toCategories(categories []domain.Category) []categoryResp {
	out := make([]categoryResp, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategory(c))
	}
	return out
}

func toProduct(p domain.Product) productResp {
	return productResp{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Image:       p.Image,
		Image2:      p.Image2,
		CategoryID:  p.CategoryID,
	}
}

func toProducts(products []domain.Product) []productResp {
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProduct(p))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
