package api

import (
	"sinemagic_server/api/admin"
	"sinemagic_server/api/auth"
	"sinemagic_server/api/health"
	"sinemagic_server/api/locales"
	"sinemagic_server/api/orders"
	"sinemagic_server/api/products"
	"sinemagic_server/api/site"

	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	siteRoutes    *site.SiteRoutesManager
	localeRoutes  *locales.LocaleRoutesManager
	productRoutes *products.ProductRoutesManager
	orderRoutes   *orders.OrderRoutesManager
	authRoutes    *auth.AuthRoutesManager
	adminRoutes   *admin.AdminRoutesManager
	healthRoutes  *health.HealthRoutesManager
}

func NewRouterManager(
	siteRoutes *site.SiteRoutesManager,
	localeRoutes *locales.LocaleRoutesManager,
	productRoutes *products.ProductRoutesManager,
	orderRoutes *orders.OrderRoutesManager,
	authRoutes *auth.AuthRoutesManager,
	adminRoutes *admin.AdminRoutesManager,
	healthRoutes *health.HealthRoutesManager,
) *routerManager {
	return &routerManager{
		siteRoutes:    siteRoutes,
		localeRoutes:  localeRoutes,
		productRoutes: productRoutes,
		orderRoutes:   orderRoutes,
		authRoutes:    authRoutes,
		adminRoutes:   adminRoutes,
		healthRoutes:  healthRoutes,
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.siteRoutes.RegisterRoutes(r)
	rm.localeRoutes.RegisterRoutes(r)
	rm.productRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
}
