package auth

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleLogout clears the client's identity, demo or remote, and sends it
// to the landing page.
func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	store := arm.mw.Session(r)
	source := store.Source()

	target := store.SignOut(r.Context())
	arm.logger.Debug("Client signed out", gecho.Field("source", source.String()))

	http.Redirect(w, r, target, http.StatusSeeOther)
}
