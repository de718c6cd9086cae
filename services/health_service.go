package services

import (
	"context"
	"runtime"
	"sinemagic_server/database"
	"time"

	"github.com/MonkyMars/gecho"
)

type serverHealthStatus struct {
	Uptime       float64   `json:"uptime"` // seconds
	CurrentTime  time.Time `json:"current_time"`
	ServiceAlive bool      `json:"service_alive"`
	RamStats     *RamStats `json:"ram_stats"`
	Goroutines   int       `json:"goroutines"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type dependencyStatus struct {
	Configured     bool   `json:"configured"`
	Connected      bool   `json:"connected"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Error          string `json:"error,omitempty"`
}

type databaseHealthStatus struct {
	Remote      dependencyStatus `json:"remote"`
	Cache       dependencyStatus `json:"cache"`
	LastChecked time.Time        `json:"last_checked"`
}

type HealthService struct {
	logger  *gecho.Logger
	db      *database.DB
	cache   *CacheService
	started time.Time
}

// NewHealthService builds the health checker. db is nil when the remote
// store is not configured.
func NewHealthService(logger *gecho.Logger, db *database.DB, cache *CacheService) *HealthService {
	return &HealthService{
		logger:  logger,
		db:      db,
		cache:   cache,
		started: time.Now(),
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      totalMB - usedMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	return serverHealthStatus{
		Uptime:       time.Since(hs.started).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     getRamStats(),
		Goroutines:   runtime.NumGoroutine(),
	}
}

func check(ctx context.Context, ping func(context.Context) error) dependencyStatus {
	start := time.Now()
	err := ping(ctx)
	status := dependencyStatus{
		Configured:     true,
		Connected:      err == nil,
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

// GetDatabaseHealthStatus pings the remote database and Redis. Missing
// dependencies are reported as not configured and do not count as
// unhealthy.
func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (databaseHealthStatus, bool) {
	status := databaseHealthStatus{LastChecked: time.Now()}
	healthy := true

	if hs.db != nil {
		status.Remote = check(ctx, hs.db.Health)
		if !status.Remote.Connected {
			healthy = false
			hs.logger.Error("Database health check failed", gecho.Field("error", status.Remote.Error))
		}
	}

	if hs.cache != nil && hs.cache.Enabled() {
		status.Cache = check(ctx, hs.cache.Ping)
		if !status.Cache.Connected {
			healthy = false
			hs.logger.Error("Cache health check failed", gecho.Field("error", status.Cache.Error))
		}
	}

	return status, healthy
}
