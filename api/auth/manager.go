package auth

import (
	"sinemagic_server/api/middleware"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// AuthRoutesManager signs clients in and out. Every handler works on the
// requesting client's auth store.
type AuthRoutesManager struct {
	logger *gecho.Logger
	mw     *middleware.Middleware
}

func NewAuthRoutesManager(logger *gecho.Logger, mw *middleware.Middleware) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger: logger,
		mw:     mw,
	}
}

func (arm *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/auth/csrf", arm.HandleCSRF)
	r.Get("/auth/session", arm.HandleSession)

	r.Group(func(r chi.Router) {
		r.Use(arm.mw.CSRFMiddleware())
		r.Post("/login", arm.HandleLogin)
		r.Post("/login/demo", arm.HandleDemoLogin)
		r.Post("/signup", arm.HandleRegister)
		r.Post("/logout", arm.HandleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(arm.mw.UserAuthMiddleware)
		r.Get("/profile", arm.HandleProfile)
	})
}
