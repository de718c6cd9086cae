package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (ar *AdminRoutesManager) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := ar.content.DeleteReview(r.Context(), id)
	ar.respond(w, err, map[string]string{"id": id}, "Review deleted")
}
