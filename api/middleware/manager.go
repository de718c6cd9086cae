package middleware

import (
	"sinemagic_server/auth"
	"sinemagic_server/services"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
)

type Middleware struct {
	cfg          *structs.Config
	logger       *gecho.Logger
	cacheService *services.CacheService
	sessions     *auth.Manager
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, cacheService *services.CacheService, sessions *auth.Manager) *Middleware {
	return &Middleware{
		cfg:          cfg,
		logger:       logger,
		cacheService: cacheService,
		sessions:     sessions,
	}
}
