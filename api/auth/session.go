package auth

import (
	"net/http"
	"sinemagic_server/api/middleware"

	"github.com/MonkyMars/gecho"
)

// HandleSession reports the client's identity. Anonymous clients get an
// unauthenticated state, not an error.
func (arm *AuthRoutesManager) HandleSession(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(arm.mw.Session(r).State()),
		gecho.Send(),
	)
}

func (arm *AuthRoutesManager) HandleProfile(w http.ResponseWriter, r *http.Request) {
	store, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"user":    store.User(),
			"profile": store.Profile(),
		}),
		gecho.Send(),
	)
}
