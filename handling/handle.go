package handling

import (
	"errors"
	"net/http"
	"sinemagic_server/auth"
	"sinemagic_server/lib"
	"sinemagic_server/services"

	"github.com/MonkyMars/gecho"
)

// MutationResult is the payload of every admin write. Warning is set when
// the change was kept locally but the remote store did not take it.
type MutationResult struct {
	Result  any        `json:"result,omitempty"`
	Warning *lib.Alert `json:"warning,omitempty"`
}

// HandleError writes the response matching err. msg is sent for failures
// that have no more specific mapping.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	var (
		alert      *lib.Alert
		validation *lib.ValidationError
	)

	switch {
	case errors.As(err, &validation):
		gecho.BadRequest(w, gecho.WithMessage("Please check the submitted data"), gecho.WithData(validation.Errors), gecho.Send())
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w, gecho.WithMessage(msg), gecho.Send())
	case errors.Is(err, lib.ErrConflict):
		gecho.Conflict(w, gecho.WithMessage("The resource already exists"), gecho.Send())
	case errors.Is(err, lib.ErrInvalidTransition), errors.Is(err, lib.ErrInvalidPrice):
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.Is(err, lib.ErrInvalidCredentials):
		gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials"), gecho.Send())
	case errors.Is(err, auth.ErrDemoDisabled):
		gecho.Forbidden(w, gecho.WithMessage("Demo sign-in is disabled"), gecho.Send())
	case errors.Is(err, lib.ErrRemoteDisabled), errors.Is(err, services.ErrMediaDisabled):
		gecho.ServiceUnavailable(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.As(err, &alert):
		logger.Error("Remote write failed", gecho.Field("error", err), gecho.Field("rolled_back", alert.RolledBack), gecho.WithCallerSkip(3))
		gecho.InternalServerError(w, gecho.WithMessage(alert.Message), gecho.WithData(alert), gecho.Send())
	default:
		logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))
		gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
	}
}

// HandleMutation answers an admin write. Warnings still count as success.
func HandleMutation(err error, result any, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	alert, warned := Warning(err)
	if err != nil && !warned {
		HandleError(err, "Unable to save changes. Please try again", logger, w)
		return
	}

	out := MutationResult{Result: result}
	if alert != nil {
		logger.Warn("Change kept locally only", gecho.Field("warning", alert.Message), gecho.Field("error", alert.Err))
		out.Warning = alert
	}
	gecho.Success(w, gecho.WithMessage(msg), gecho.WithData(out), gecho.Send())
}

// HandleBodyError answers a request whose body could not be decoded or
// failed validation.
func HandleBodyError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	var validation *lib.ValidationError
	if errors.As(err, &validation) {
		gecho.BadRequest(w, gecho.WithMessage(msg), gecho.WithData(validation.Errors), gecho.Send())
		return
	}
	logger.Debug("Malformed request body", gecho.Field("error", err))
	gecho.BadRequest(w, gecho.WithMessage(msg), gecho.Send())
}
