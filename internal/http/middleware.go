package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tableside/internal/identity"
	"tableside/internal/manager"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionMiddleware builds the per-request Session from the bearer token and
// the table/group headers. An absent or stale token leaves the session
// anonymous; handlers that need a user reject later. Identity lookup failures
// other than a missing user are surfaced as 500s here.
func SessionMiddleware(ident identity.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := manager.Session{
				TableID:      r.Header.Get("X-Table-ID"),
				GroupOrderID: r.Header.Get("X-Group-Order-ID"),
			}

			if token := bearerToken(r); token != "" {
				user, err := ident.UserBySession(r.Context(), token)
				switch {
				case errors.Is(err, identity.ErrNoUser):
					// expired or revoked session, proceed anonymously
				case err != nil:
					respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
					return
				default:
					sess.UserID = user.ID
				}
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func sessionFromContext(ctx context.Context) manager.Session {
	if sess, ok := ctx.Value(sessionKey).(manager.Session); ok {
		return sess
	}
	return manager.Session{}
}
