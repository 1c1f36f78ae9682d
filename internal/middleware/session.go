package middleware

import (
	"context"
	"net/http"

	"cloudriddle/internal/service/session"
)

// SessionCookie carries the session id between requests.
const SessionCookie = "cloudriddle_session"

type contextKey struct{}

// SessionMiddleware attaches the caller's session to the request context,
// creating one (and setting the cookie) when the request carries none.
func SessionMiddleware(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				id = cookie.Value
			}

			sess, created := store.Get(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, sess)))
		})
	}
}

// SessionFrom returns the session attached by SessionMiddleware.
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*session.Session)
	return sess, ok
}
