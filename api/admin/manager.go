package admin

import (
	"errors"
	"net/http"
	"sinemagic_server/api/health"
	"sinemagic_server/api/middleware"
	"sinemagic_server/content"
	"sinemagic_server/handling"
	"sinemagic_server/lib"
	"sinemagic_server/services"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger       *gecho.Logger
	content      *content.Store
	mediaService *services.MediaService
	mediaCfg     *structs.MediaConfig
	mw           *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	content *content.Store,
	mediaService *services.MediaService,
	mediaCfg *structs.MediaConfig,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:       logger,
		content:      content,
		mediaService: mediaService,
		mediaCfg:     mediaCfg,
		mw:           mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.UserAuthMiddleware)
		r.Use(ar.mw.AdminAuthMiddleware)

		r.Get("/content", ar.GetContent)
		r.Get("/products", ar.ListProducts)
		r.Get("/orders", ar.ListOrders)
		r.Get("/orders/{id}", ar.GetOrder)
		r.Get("/pages", ar.ListPages)

		r.Group(func(r chi.Router) {
			r.Use(ar.mw.CSRFMiddleware())

			r.Put("/translations", ar.UpdateTranslation)
			r.Put("/sections/{id}", ar.ToggleSection)

			r.Post("/products", ar.CreateProduct)
			r.Patch("/products/{id}", ar.UpdateProduct)
			r.Delete("/products/{id}", ar.DeleteProduct)

			r.Put("/orders/{id}/status", ar.UpdateOrderStatus)

			r.Delete("/reviews/{id}", ar.DeleteReview)

			r.Post("/pages", ar.CreatePage)
			r.Patch("/pages/{id}", ar.UpdatePage)
			r.Delete("/pages/{id}", ar.DeletePage)

			r.Post("/refresh", ar.Refresh)

			r.Post("/media", ar.UploadImage)
			r.Delete("/media/*", ar.DeleteImage)
		})
	})
}

// respond answers a content mutation and counts the alerts it raised.
func (ar *AdminRoutesManager) respond(w http.ResponseWriter, err error, result any, msg string) {
	var alert *lib.Alert
	if errors.As(err, &alert) {
		health.RemoteWriteAlerts.WithLabelValues(string(alert.Level)).Inc()
	}
	handling.HandleMutation(err, result, msg, ar.logger, w)
}
