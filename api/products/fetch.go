package products

import (
	"net/http"
	"sinemagic_server/handling"
	"sort"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchProducts handles GET /products. Only visible products are listed.
func (p *ProductRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		p.logger.Warn("Invalid query parameters", gecho.Field("error", err))
		handling.HandleBodyError(err, "Invalid query parameters", p.logger, w)
		return
	}

	products := opts.Apply(p.content.VisibleProducts())

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": products,
			"meta": map[string]any{
				"count":   len(products),
				"loading": p.content.Loading(),
			},
		}),
		gecho.Send(),
	)
}

func (p *ProductRoutesManager) FetchProductByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, ok := p.content.Product(id)
	if !ok || !product.IsVisible {
		gecho.NotFound(w,
			gecho.WithMessage("Product not found"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.Send(),
	)
}

// FetchCategories lists the categories of visible products.
func (p *ProductRoutesManager) FetchCategories(w http.ResponseWriter, r *http.Request) {
	seen := make(map[string]struct{})
	categories := []string{}
	for _, product := range p.content.VisibleProducts() {
		if _, ok := seen[product.Category]; ok || product.Category == "" {
			continue
		}
		seen[product.Category] = struct{}{}
		categories = append(categories, product.Category)
	}
	sort.Strings(categories)

	gecho.Success(w,
		gecho.WithData(categories),
		gecho.Send(),
	)
}
