package products

import (
	"sinemagic_server/content"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger  *gecho.Logger
	content *content.Store
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	content *content.Store,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:  logger,
		content: content,
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/products", prm.FetchProducts)
	r.Get("/products/categories", prm.FetchCategories)
	r.Get("/products/{id}", prm.FetchProductByID)
}
