package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fooddash/api/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const sessionKey contextKey = "session"

// Session resolves the guest session from the session cookie or a bearer
// token. Requests without a valid token get a fresh session and a cookie.
func Session(secret string, ttl time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenStr := tokenFromRequest(r); tokenStr != "" {
				if claims, err := session.ParseToken(secret, tokenStr); err == nil {
					next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), claims.SessionID)))
					return
				}
			}

			sid := uuid.New()
			token, err := session.NewToken(secret, sid, ttl)
			if err != nil {
				logger.Error("issue session token", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     session.CookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set("X-Session-Token", token)

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sid)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if c, err := r.Cookie(session.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// WithSession stores a session id in ctx.
func WithSession(ctx context.Context, sid uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionKey, sid)
}

// SessionFromContext returns the session id set by Session, or uuid.Nil.
func SessionFromContext(ctx context.Context) uuid.UUID {
	sid, _ := ctx.Value(sessionKey).(uuid.UUID)
	return sid
}
