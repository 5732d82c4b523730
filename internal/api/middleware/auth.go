package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jairajbhatia/reviewgraph/internal/api/response"
	"github.com/jairajbhatia/reviewgraph/internal/store"
)

// Auth validates bearer session tokens against the store.
type Auth struct {
	store store.Store
}

// NewAuth creates a new Auth middleware.
func NewAuth(s store.Store) *Auth {
	return &Auth{store: s}
}

// Authenticate resolves the Bearer token to a session and its user, rejects
// expired or unknown tokens, and sets user_id and username in the request
// context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		sess, err := a.store.GetSessionByToken(r.Context(), token)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid session token", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to validate session", nil)
			return
		}

		if time.Now().After(sess.ExpiresAt) {
			response.Error(w, http.StatusUnauthorized,
				"SESSION_EXPIRED", "Session has expired, log in again", nil)
			return
		}

		user, err := a.store.GetUserByID(r.Context(), sess.UserID)
		if err != nil {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Session user no longer exists", nil)
			return
		}

		r = r.WithContext(SetUser(r.Context(), user.ID, user.Username))
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
