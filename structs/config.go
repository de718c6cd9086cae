package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Remote    *RemoteConfig
	Cache     *CacheConfig
	Auth      *AuthConfig
	RateLimit *RateLimitConfig
	Email     *EmailConfig
	Media     *MediaConfig
	Content   *ContentConfig
}

type ServerConfig struct {
	AppName        string        // Sinemagic
	Environment    string        // development, production
	Port           string        // :8082
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	MaxBodyBytes   int64
	CookieDomain   string
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// RemoteConfig describes the hosted project. URL is a Postgres DSN and
// AnonKey signs the sessions issued by the project. The remote store is
// consulted only when both are set.
type RemoteConfig struct {
	URL            string
	AnonKey        string
	ProjectRef     string
	RunMigrations  bool
	MaxConns       int
	MinConns       int
	MaxLifetime    time.Duration
	MaxIdleTime    time.Duration
	ConnectTimeout time.Duration
}

func (rc *RemoteConfig) Enabled() bool {
	return rc != nil && rc.URL != "" && rc.AnonKey != ""
}

// CacheConfig configures the Redis instance backing the local mirror,
// rate limiting and the token blacklist. An empty Address selects the
// in-process mirror.
type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
}

func (cc *CacheConfig) Enabled() bool {
	return cc != nil && cc.Address != ""
}

type AuthConfig struct {
	SessionExpiry     time.Duration
	SessionTimeout    time.Duration
	BlacklistCacheTTL time.Duration
	ClientCookieTTL   time.Duration
	DemoEnabled       bool
	DemoEmail         string
}

type RateLimitConfig struct {
	Enabled       bool
	GeneralLimit  int
	GeneralWindow time.Duration
	AuthLimit     int
	AuthWindow    time.Duration
	AdminLimit    int
	AdminWindow   time.Duration
	OrderLimit    int
	OrderWindow   time.Duration
}

type EmailConfig struct {
	ApiKey    string
	From      string
	ShopEmail string
}

type MediaConfig struct {
	CloudinaryURL string
	Folder        string
	MaxDimension  int
	Quality       int
	MaxUploadSize int64
}

type ContentConfig struct {
	DefaultLanguage string
	Languages       []string
}
