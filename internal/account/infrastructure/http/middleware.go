package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"shopit/internal/account/application"
	"shopit/internal/account/domain"
)

const SessionCookie = "shopit_session"

type contextKey struct{}

// SessionFrom returns the request's session. The zero session is
// returned only for requests that bypassed the middleware.
func SessionFrom(ctx context.Context) domain.Session {
	s, _ := ctx.Value(contextKey{}).(domain.Session)
	return s
}

func WithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// Middleware attaches a server-side session to every request, minting a
// new one (and cookie) for first-time visitors.
type Middleware struct {
	sessions application.SessionStore
}

func NewMiddleware(sessions application.SessionStore) *Middleware {
	return &Middleware{sessions: sessions}
}

func (m *Middleware) EnsureSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := m.existing(r)
		if !ok {
			sess = domain.Session{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
			if err := m.sessions.Save(r.Context(), sess); err != nil {
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

func (m *Middleware) existing(r *http.Request) (domain.Session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return domain.Session{}, false
	}
	sess, err := m.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return domain.Session{}, false
	}
	return sess, true
}

// RequireUser rejects requests whose session has no logged-in user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFrom(r.Context()).Authenticated() {
			writeJSON(w, http.StatusUnauthorized, errorBody("login required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
