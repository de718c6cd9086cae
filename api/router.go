package api

import (
	"net/http"
	"sinemagic_server/api/admin"
	"sinemagic_server/api/auth"
	"sinemagic_server/api/health"
	"sinemagic_server/api/locales"
	"sinemagic_server/api/middleware"
	"sinemagic_server/api/orders"
	"sinemagic_server/api/products"
	"sinemagic_server/api/site"
	authstore "sinemagic_server/auth"
	"sinemagic_server/config"
	"sinemagic_server/content"
	"sinemagic_server/i18n"
	"sinemagic_server/services"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// Dependencies are the long-lived objects built in main.
type Dependencies struct {
	Config   *structs.Config
	Content  *content.Store
	Sessions *authstore.Manager
	Resolver *i18n.Resolver
	Services *services.ServiceManager
}

func App(deps Dependencies) chi.Router {
	r := chi.NewRouter()
	cfg := deps.Config

	// create loggers
	mwLogger := config.NewLogger(false)
	standardLogger := config.NewLogger(true)

	mw := middleware.NewMiddleware(cfg, mwLogger, deps.Services.CacheService, deps.Sessions)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(gecho.Handlers.CreateLoggingMiddleware(mwLogger))
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before auth / csrf)
	r.Use(mw.SetupCORS().Handler)

	r.Use(mw.RateLimitMiddleware())
	r.Use(mw.ClientMiddleware)

	NewRouterManager(
		site.NewSiteRoutesManager(standardLogger, deps.Content, deps.Resolver, cfg.Content, mw),
		locales.NewLocaleRoutesManager(standardLogger, deps.Resolver),
		products.NewProductRoutesManager(standardLogger, deps.Content),
		orders.NewOrderRoutesManager(standardLogger, deps.Content, mw),
		auth.NewAuthRoutesManager(standardLogger, mw),
		admin.NewAdminRoutesManager(standardLogger, deps.Content, deps.Services.MediaService, cfg.Media, mw),
		health.NewHealthRoutesManager(deps.Services.HealthService),
	).RegisterRoutes(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}
