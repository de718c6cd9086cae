package middleware

import (
	"context"
	"net/http"
	"sinemagic_server/auth"
	"sinemagic_server/lib"
	"time"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const (
	ClientIDContextKey contextKey = "client_id"
	SessionContextKey  contextKey = "session"
)

// client ids are base64url of 32 random bytes
const clientIDLength = 44

// ClientMiddleware makes sure every request carries a client id cookie.
// The id scopes the client's slice of the mirror and its auth store.
func (mw *Middleware) ClientMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID, err := lib.GetCookieValue(lib.ClientCookieName, r)
		if err != nil || len(clientID) != clientIDLength {
			clientID, err = lib.GenerateRandomToken()
			if err != nil {
				mw.logger.Error("Failed to generate client id", gecho.Field("error", err))
				gecho.InternalServerError(w, gecho.Send())
				return
			}
			lib.SetCookie(lib.ClientCookieName, clientID, time.Now().Add(mw.cfg.Auth.ClientCookieTTL), w)
		}

		ctx := context.WithValue(r.Context(), ClientIDContextKey, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Session returns the bootstrapped auth store of the requesting client.
// It blocks for at most the session timeout on the client's first request.
func (mw *Middleware) Session(r *http.Request) *auth.Store {
	if store, ok := r.Context().Value(SessionContextKey).(*auth.Store); ok {
		return store
	}
	clientID, _ := GetClientIDFromContext(r.Context())
	return mw.sessions.Get(r.Context(), clientID)
}

// UserAuthMiddleware protects routes to signed-in clients, demo or remote.
func (mw *Middleware) UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := mw.Session(r)
		if store.User() == nil {
			gecho.Unauthorized(w, gecho.WithMessage("Please sign in to continue"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminAuthMiddleware protects routes to admin profiles.
// Must be used after UserAuthMiddleware
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, ok := GetSessionFromContext(r.Context())
		if !ok {
			gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
			return
		}

		state := store.State()
		if !state.IsAdmin {
			userID := ""
			if state.User != nil {
				userID = state.User.ID
			}
			mw.logger.Warn("Non-admin user attempted to access admin route",
				gecho.Field("user_id", userID),
				gecho.Field("source", state.Source.String()),
			)
			gecho.Forbidden(w, gecho.WithMessage("Admin access required"), gecho.Send())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func GetClientIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ClientIDContextKey).(string)
	return id, ok
}

func GetSessionFromContext(ctx context.Context) (*auth.Store, bool) {
	store, ok := ctx.Value(SessionContextKey).(*auth.Store)
	return store, ok
}
