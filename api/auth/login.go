package auth

import (
	"net/http"
	"sinemagic_server/handling"
	"sinemagic_server/lib"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check your login information and try again", arm.logger, w)
		return
	}

	store := arm.mw.Session(r)
	user, err := store.SignInWithPassword(r.Context(), body.Email, body.Password)
	if err != nil {
		arm.logger.Warn("Login failed", gecho.Field("email", body.Email), gecho.Field("error", err))
		handling.HandleError(err, "Unable to complete login. Please try again", arm.logger, w)
		return
	}

	arm.logger.Info("User signed in", gecho.Field("user_id", user.ID))

	gecho.Success(w,
		gecho.WithMessage("Login successful"),
		gecho.WithData(store.State()),
		gecho.Send(),
	)
}

// HandleDemoLogin signs the client in as the local demo admin. The body is
// optional; the configured demo email is used when it carries none.
func (arm *AuthRoutesManager) HandleDemoLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractOptionalBody[structs.DemoLoginRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Invalid demo login request", arm.logger, w)
		return
	}

	store := arm.mw.Session(r)
	if _, err := store.SignInWithDemo(r.Context(), body.Email); err != nil {
		arm.logger.Warn("Demo login rejected", gecho.Field("error", err))
		handling.HandleError(err, "Unable to complete demo login", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Signed in with the demo account"),
		gecho.WithData(store.State()),
		gecho.Send(),
	)
}
