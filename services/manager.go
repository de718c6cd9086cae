package services

import (
	"sinemagic_server/database"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

type ServiceManager struct {
	CacheService  *CacheService
	EmailService  *EmailService
	HealthService *HealthService
	MediaService  *MediaService
}

// NewServiceManager wires the supporting services. db and redisClient may
// be nil when the remote store or Redis are not configured.
func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, redisClient *redis.Client) (*ServiceManager, error) {
	cacheService := NewCacheService(logger, redisClient)
	emailService := NewEmailService(logger, cfg.Email)
	healthService := NewHealthService(logger, db, cacheService)
	mediaService, err := NewMediaService(logger, cfg.Media)
	if err != nil {
		return nil, err
	}

	return &ServiceManager{
		CacheService:  cacheService,
		EmailService:  emailService,
		HealthService: healthService,
		MediaService:  mediaService,
	}, nil
}
