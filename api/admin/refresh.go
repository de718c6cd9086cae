package admin

import (
	"net/http"
	"sinemagic_server/api/health"

	"github.com/MonkyMars/gecho"
)

// Refresh reloads the mirror and reconciles with the remote store.
// Failures are reported, never fatal.
func (ar *AdminRoutesManager) Refresh(w http.ResponseWriter, r *http.Request) {
	report := ar.content.Refresh(r.Context())
	health.RecordSyncReport(report)

	failed := report.Failed()
	msg := "Content refreshed"
	if len(failed) > 0 {
		msg = "Content refreshed with failures"
	}

	gecho.Success(w,
		gecho.WithMessage(msg),
		gecho.WithData(map[string]any{
			"report": report,
			"failed": failed,
		}),
		gecho.Send(),
	)
}
