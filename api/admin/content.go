package admin

import (
	"net/http"
	"sinemagic_server/handling"
	"sinemagic_server/lib"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// GetContent returns the full read model including hidden products and
// pages.
func (ar *AdminRoutesManager) GetContent(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"content":        ar.content.Snapshot(),
			"remote_enabled": ar.content.RemoteEnabled(),
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateTranslation(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.TranslationRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check the translation and try again", ar.logger, w)
		return
	}

	err = ar.content.UpdateTranslation(r.Context(), body.Key, body.Value, body.Lang)
	ar.respond(w, err, body, "Translation saved")
}

func (ar *AdminRoutesManager) ToggleSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := lib.ExtractAndValidateBody[structs.SectionRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please provide the section visibility", ar.logger, w)
		return
	}

	err = ar.content.ToggleSection(r.Context(), id, *body.Visible)
	ar.respond(w, err, map[string]any{"id": id, "visible": *body.Visible}, "Section updated")
}
