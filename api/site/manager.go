package site

import (
	"sinemagic_server/api/middleware"
	"sinemagic_server/content"
	"sinemagic_server/i18n"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// SiteRoutesManager serves the public marketing site: the landing page
// model, custom pages and reviews.
type SiteRoutesManager struct {
	logger   *gecho.Logger
	content  *content.Store
	resolver *i18n.Resolver
	cfg      *structs.ContentConfig
	mw       *middleware.Middleware
}

func NewSiteRoutesManager(
	logger *gecho.Logger,
	content *content.Store,
	resolver *i18n.Resolver,
	cfg *structs.ContentConfig,
	mw *middleware.Middleware,
) *SiteRoutesManager {
	return &SiteRoutesManager{
		logger:   logger,
		content:  content,
		resolver: resolver,
		cfg:      cfg,
		mw:       mw,
	}
}

func (srm *SiteRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/", srm.GetLanding)
	r.Get("/content", srm.GetContent)
	r.Get("/p/{slug}", srm.GetPage)

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", srm.ListReviews)
		r.With(srm.mw.CSRFMiddleware()).Post("/", srm.CreateReview)
	})
}
