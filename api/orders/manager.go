package orders

import (
	"sinemagic_server/api/middleware"
	"sinemagic_server/content"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger  *gecho.Logger
	content *content.Store
	mw      *middleware.Middleware
}

func NewOrderRoutesManager(logger *gecho.Logger, content *content.Store, mw *middleware.Middleware) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:  logger,
		content: content,
		mw:      mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.With(orm.mw.CSRFMiddleware()).Post("/orders", orm.CreateOrder)
}
