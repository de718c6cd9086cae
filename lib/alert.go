package lib

import (
	"errors"
	"fmt"
)

type AlertLevel string

const (
	AlertWarning AlertLevel = "warning"
	AlertError   AlertLevel = "error"
)

// Alert is a user-facing notice produced by an admin mutation whose remote
// write did not go through. Blocking alerts must be acknowledged by the
// operator; warnings are informational.
type Alert struct {
	Level      AlertLevel `json:"level"`
	Message    string     `json:"message"`
	Cause      string     `json:"cause,omitempty"`
	Resolution string     `json:"resolution,omitempty"`
	RolledBack bool       `json:"rolled_back"`
	Err        error      `json:"-"`
}

func (a *Alert) Error() string {
	if a.Err != nil {
		return fmt.Sprintf("%s: %v", a.Message, a.Err)
	}
	return a.Message
}

func (a *Alert) Unwrap() error {
	return a.Err
}

func (a *Alert) Blocking() bool {
	return a.Level == AlertError
}

// NewRemoteWriteAlert classifies a failed remote write by SQLSTATE.
func NewRemoteWriteAlert(message string, err error, rolledBack bool) *Alert {
	alert := &Alert{
		Level:      AlertError,
		Message:    message,
		RolledBack: rolledBack,
		Err:        err,
	}
	mapped := MapPgError(err)
	switch {
	case errors.Is(mapped, ErrSchemaMismatch):
		alert.Cause = "Database schema mismatch: the colors or is_visible columns are missing."
		alert.Resolution = "Apply the latest migrations to the remote database."
	case errors.Is(mapped, ErrAccessDenied):
		alert.Cause = "The write was rejected by a row-level access policy."
		alert.Resolution = "Update the table policies to allow writes for the admin role."
	case errors.Is(err, ErrNoConfirmation):
		alert.Cause = "The database accepted the request but returned no row, usually an access policy issue."
		alert.Resolution = "Check the select policy on the products table."
	}
	return alert
}
