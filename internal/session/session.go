// Package session wires the scs session manager to the SQLite store
// and provides current-user middleware and flash-message helpers.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/planpals/app/internal/model"
	"github.com/planpals/app/internal/store"
)

// contextKey is a private type for request-context keys.
type contextKey string

const userContextKey contextKey = "user"

// Session keys.
const (
	KeyUserID    = "user_id"
	KeyFlash     = "flash"
	KeyFlashKind = "flash_kind"
)

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only
	return sm
}

// LoadUser loads the logged-in user into the request context. Requests
// without a valid session pass through anonymous; a stale user id
// destroys the session.
func LoadUser(sm *scs.SessionManager, q *store.Queries) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := q.GetUserByID(r.Context(), userID)
			if err != nil {
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser redirects anonymous requests to the login page. It must
// run after LoadUser.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the logged-in user from the request context, or
// nil for anonymous requests.
func CurrentUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// WithUser returns a context carrying the given user. Exposed for handler tests.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// Flash holds a one-shot message for the next rendered page.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// PutFlash stores a one-shot message in the session.
func PutFlash(ctx context.Context, sm *scs.SessionManager, kind, message string) {
	sm.Put(ctx, KeyFlashKind, kind)
	sm.Put(ctx, KeyFlash, message)
}

// PopFlash removes and returns the pending flash message, if any.
func PopFlash(ctx context.Context, sm *scs.SessionManager) *Flash {
	message := sm.PopString(ctx, KeyFlash)
	if message == "" {
		return nil
	}
	return &Flash{Kind: sm.PopString(ctx, KeyFlashKind), Message: message}
}
