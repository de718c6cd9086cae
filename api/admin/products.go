package admin

import (
	"net/http"
	"sinemagic_server/handling"
	"sinemagic_server/lib"
	"sinemagic_server/structs"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ar *AdminRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(ar.content.Products()),
		gecho.Send(),
	)
}

func normalizeColors(colors []string) []string {
	for i, color := range colors {
		colors[i] = strings.ToLower(color)
	}
	return colors
}

// CreateProduct adds a product. A write the remote store rejects is rolled
// back and answered with a blocking alert; offline the product is kept
// locally with a warning.
func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check the product information and try again", ar.logger, w)
		return
	}
	body.Colors = normalizeColors(body.Colors)

	product, err := ar.content.AddProduct(r.Context(), body.ToProduct())
	ar.respond(w, err, product, "Product created successfully")
}

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := lib.ExtractAndValidateBody[structs.ProductPatch](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check the product information and try again", ar.logger, w)
		return
	}
	if body.Colors != nil {
		normalizeColors(*body.Colors)
	}

	product, err := ar.content.UpdateProduct(r.Context(), id, body)
	ar.respond(w, err, product, "Product updated successfully")
}

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := ar.content.DeleteProduct(r.Context(), id)
	ar.respond(w, err, map[string]string{"id": id}, "Product deleted successfully")
}
