package admin

import (
	"net/http"
	"sinemagic_server/handling"
	"sinemagic_server/lib"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ar *AdminRoutesManager) ListPages(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(ar.content.Pages()),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreatePage(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.PageRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check the page and try again", ar.logger, w)
		return
	}

	page, err := ar.content.AddPage(r.Context(), body)
	ar.respond(w, err, page, "Page created")
}

func (ar *AdminRoutesManager) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := lib.ExtractAndValidateBody[structs.PagePatch](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check the page and try again", ar.logger, w)
		return
	}

	page, err := ar.content.UpdatePage(r.Context(), id, body)
	ar.respond(w, err, page, "Page updated")
}

func (ar *AdminRoutesManager) DeletePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := ar.content.DeletePage(r.Context(), id)
	ar.respond(w, err, map[string]string{"id": id}, "Page deleted")
}
