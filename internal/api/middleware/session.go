package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	apiContext "qrlink/internal/api/context"
	"qrlink/internal/engine/session"
)

// SessionMiddleware attaches the caller's controller to the request context,
// issuing a new session cookie when none (or a malformed one) is presented.
type SessionMiddleware struct {
	store      *session.Store
	cookieName string
}

func NewSessionMiddleware(store *session.Store, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{store: store, cookieName: cookieName}
}

func (m *SessionMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(m.cookieName); err == nil {
			if parsed, err := uuid.Parse(cookie.Value); err == nil {
				id = parsed.String()
			}
		}

		if id == "" {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), apiContext.SessionID, id)
		ctx = context.WithValue(ctx, apiContext.Session, m.store.Get(id))
		next(w, r.WithContext(ctx))
	}
}

// ControllerFrom returns the controller placed in ctx by SessionMiddleware.
func ControllerFrom(ctx context.Context) (*session.Controller, bool) {
	c, ok := ctx.Value(apiContext.Session).(*session.Controller)
	return c, ok
}

// SessionIDFrom returns the session id placed in ctx by SessionMiddleware.
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(apiContext.SessionID).(string)
	return id
}
