package config

import (
	"sinemagic_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server: &structs.ServerConfig{
				AppName:        getEnvAsString("APP_NAME", "Sinemagic_no_env"),
				Environment:    getEnvAsString("APP_ENV", "development"),
				Port:           getEnvAsString("APP_PORT", ":8082"),
				ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
				WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
				IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
				MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
				MaxBodyBytes:   int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 10<<20)),
				CookieDomain:   getEnvAsString("COOKIE_DOMAIN", ""),
			},
			Cors: &structs.CorsConfig{
				AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
				AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
				AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-CSRF-Token"}),
				AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
				ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "X-RateLimit-Remaining"}),
				MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
			},
			Remote: &structs.RemoteConfig{
				URL:            getEnvAsString("REMOTE_URL", ""),
				AnonKey:        getEnvAsString("REMOTE_ANON_KEY", ""),
				ProjectRef:     getEnvAsString("REMOTE_PROJECT_REF", "sinemagic"),
				RunMigrations:  getEnvAsBool("REMOTE_RUN_MIGRATIONS", true),
				MaxConns:       getEnvAsInt("REMOTE_MAX_CONNS", 10),
				MinConns:       getEnvAsInt("REMOTE_MIN_CONNS", 2),
				MaxLifetime:    getEnvAsTimeDuration("REMOTE_MAX_LIFETIME", 30*time.Minute),
				MaxIdleTime:    getEnvAsTimeDuration("REMOTE_MAX_IDLE_TIME", 5*time.Minute),
				ConnectTimeout: getEnvAsTimeDuration("REMOTE_CONNECT_TIMEOUT", 5*time.Second),
			},
			Cache: &structs.CacheConfig{
				Address:         getEnvAsString("REDIS_ADDRESS", ""),
				Username:        getEnvAsString("REDIS_USERNAME", ""),
				Password:        getEnvAsString("REDIS_PASSWORD", ""),
				DB:              getEnvAsInt("REDIS_DB", 0),
				PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
				MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
				MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
				PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
				IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
				DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
				ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
				WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
				MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
				MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
				MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			},
			Auth: &structs.AuthConfig{
				SessionExpiry:     getEnvAsTimeDuration("AUTH_SESSION_EXPIRY", time.Hour),
				SessionTimeout:    getEnvAsTimeDuration("AUTH_SESSION_TIMEOUT", 3*time.Second),
				BlacklistCacheTTL: getEnvAsTimeDuration("AUTH_BLACKLIST_TTL", time.Hour),
				ClientCookieTTL:   getEnvAsTimeDuration("AUTH_CLIENT_COOKIE_TTL", 30*24*time.Hour),
				DemoEnabled:       getEnvAsBool("AUTH_DEMO_ENABLED", true),
				DemoEmail:         getEnvAsString("AUTH_DEMO_EMAIL", "admin@sinemagic.com"),
			},
			RateLimit: &structs.RateLimitConfig{
				Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
				GeneralLimit:  getEnvAsInt("RATE_LIMIT_GENERAL", 300),
				GeneralWindow: getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
				AuthLimit:     getEnvAsInt("RATE_LIMIT_AUTH", 10),
				AuthWindow:    getEnvAsTimeDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
				AdminLimit:    getEnvAsInt("RATE_LIMIT_ADMIN", 120),
				AdminWindow:   getEnvAsTimeDuration("RATE_LIMIT_ADMIN_WINDOW", time.Minute),
				OrderLimit:    getEnvAsInt("RATE_LIMIT_ORDERS", 5),
				OrderWindow:   getEnvAsTimeDuration("RATE_LIMIT_ORDERS_WINDOW", 10*time.Minute),
			},
			Email: &structs.EmailConfig{
				ApiKey:    getEnvAsString("RESEND_API_KEY", ""),
				From:      getEnvAsString("EMAIL_FROM", "Sinemagic <shop@sinemagic.com>"),
				ShopEmail: getEnvAsString("EMAIL_SHOP_ADDRESS", ""),
			},
			Media: &structs.MediaConfig{
				CloudinaryURL: getEnvAsString("CLOUDINARY_URL", ""),
				Folder:        getEnvAsString("CLOUDINARY_FOLDER", "sinemagic/products"),
				MaxDimension:  getEnvAsInt("MEDIA_MAX_DIMENSION", 1600),
				Quality:       getEnvAsInt("MEDIA_JPEG_QUALITY", 85),
				MaxUploadSize: int64(getEnvAsInt("MEDIA_MAX_UPLOAD_BYTES", 8<<20)),
			},
			Content: &structs.ContentConfig{
				DefaultLanguage: getEnvAsString("CONTENT_DEFAULT_LANG", "ru"),
				Languages:       getEnvAsSlice("CONTENT_LANGUAGES", []string{"ru", "en"}),
			},
		}
	})
	return configInstance
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
