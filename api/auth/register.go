package auth

import (
	"net/http"
	"sinemagic_server/handling"
	"sinemagic_server/lib"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.RegisterRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check your registration information and try again", arm.logger, w)
		return
	}

	store := arm.mw.Session(r)
	user, err := store.SignUp(r.Context(), body)
	if err != nil {
		arm.logger.Warn("Registration failed", gecho.Field("email", body.Email), gecho.Field("error", err))
		handling.HandleError(err, "Unable to create your account. Please try again", arm.logger, w)
		return
	}

	arm.logger.Info("User registered", gecho.Field("user_id", user.ID))

	gecho.Success(w,
		gecho.WithMessage("Account created"),
		gecho.WithData(store.State()),
		gecho.Send(),
	)
}
