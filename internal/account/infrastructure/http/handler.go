package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shopit/internal/account/application"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.With(RequireUser).Get("/profile", h.profile)
}

type credentialsReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("username and password are required"))
		return
	}

	sess := SessionFrom(r.Context())
	user, err := h.service.Register(r.Context(), sess.ID, req.Username, req.Email, req.Password)
	if errors.Is(err, application.ErrUsernameTaken) {
		writeJSON(w, http.StatusBadRequest, errorBody("Username already taken."))
		return
	}
	if err != nil {
		h.log.Error("register failed", "username", req.Username, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("registration failed"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":   "success",
		"user_id":  user.ID,
		"username": user.Username,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid body"))
		return
	}

	sess := SessionFrom(r.Context())
	user, err := h.service.Login(r.Context(), sess.ID, req.Username, req.Password)
	if errors.Is(err, application.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, errorBody("Invalid credentials"))
		return
	}
	if err != nil {
		h.log.Error("login failed", "username", req.Username, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("login failed"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"user_id":  user.ID,
		"username": user.Username,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	if err := h.service.Logout(r.Context(), sess.ID); err != nil {
		h.log.Error("logout failed", "session_id", sess.ID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("logout failed"))
		return
	}

	// Expire the cookie; the next request mints a fresh session.
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	user, err := h.service.Profile(r.Context(), sess.UserID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("user not found"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":    user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"status": "error", "message": msg}
}
