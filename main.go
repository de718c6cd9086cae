package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sinemagic_server/api"
	"sinemagic_server/api/health"
	"sinemagic_server/auth"
	"sinemagic_server/config"
	"sinemagic_server/content"
	"sinemagic_server/database"
	"sinemagic_server/i18n"
	"sinemagic_server/mirror"
	"sinemagic_server/remote"
	"sinemagic_server/services"
	"sinemagic_server/structs"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const (
	sessionSweepInterval = 5 * time.Minute
	sessionIdleTimeout   = 30 * time.Minute
	shutdownTimeout      = 10 * time.Second
)

var logger *gecho.Logger
var cfg *structs.Config

// init loads environment variables and initializes the logger
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Local mirror: Redis when configured, process memory otherwise
	var redisClient *redis.Client
	var store mirror.Store = mirror.NewMemory()
	if cfg.Cache.Enabled() {
		redisClient = mirror.NewRedisClient(cfg.Cache)
		redisMirror := mirror.NewRedis(redisClient, "sinemagic:", logger)
		if err := redisMirror.Ping(ctx); err != nil {
			logger.Warn("Redis unreachable, mirror calls will fail until it recovers", gecho.Field("error", err))
		}
		store = redisMirror
	} else {
		logger.Warn("REDIS_ADDRESS not set, using the in-process mirror")
	}

	// Remote store
	var db *database.DB
	if cfg.Remote.Enabled() {
		var err error
		db, err = database.Open(cfg.Remote, logger)
		if err != nil {
			logger.Fatal("Invalid remote store configuration", gecho.Field("error", err))
		}
		if err := db.WaitReady(ctx); err != nil {
			logger.Warn("Remote store unreachable at startup, reads and writes will be attempted per call", gecho.Field("error", err))
		} else if cfg.Remote.RunMigrations {
			if err := db.Migrate(); err != nil {
				logger.Fatal("Failed to migrate remote store", gecho.Field("error", err))
			}
		}
	} else {
		logger.Info("Remote store not configured, running on the local mirror")
	}

	serviceManager, err := services.NewServiceManager(logger, cfg, db, redisClient)
	if err != nil {
		logger.Fatal("Failed to initialize services", gecho.Field("error", err))
	}

	static, err := i18n.NewResolver(nil)
	if err != nil {
		logger.Fatal("Failed to load static translations", gecho.Field("error", err))
	}

	contentOpts := content.Options{
		Mirror:          store,
		Logger:          logger,
		Translations:    static.Flatten(),
		Notifier:        serviceManager.EmailService,
		DefaultLanguage: cfg.Content.DefaultLanguage,
	}
	var authFactory auth.ClientFactory
	if db != nil {
		contentOpts.Remote = remote.NewClient(db, logger)

		authService := remote.NewAuthService(db, cfg.Remote, cfg.Auth, serviceManager.CacheService, logger)
		authFactory = func(s mirror.Store) auth.RemoteAuth {
			return authService.ForClient(s)
		}
	}

	contentStore := content.New(contentOpts)
	synced := contentStore.Start(ctx)
	go func() {
		if report, ok := <-synced; ok {
			health.RecordSyncReport(report)
		}
	}()

	resolver, err := i18n.NewResolver(contentStore)
	if err != nil {
		logger.Fatal("Failed to build language resolver", gecho.Field("error", err))
	}

	sessions := auth.NewManager(store, authFactory, cfg.Auth, logger)
	go sessions.Run(ctx, sessionSweepInterval, sessionIdleTimeout)

	server := &http.Server{
		Addr: cfg.Server.Port,
		Handler: api.App(api.Dependencies{
			Config:   cfg,
			Content:  contentStore,
			Sessions: sessions,
			Resolver: resolver,
			Services: serviceManager,
		}),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", gecho.Field("error", err))
	}

	sessions.Close()
	contentStore.Close()
	serviceManager.EmailService.Wait(shutdownTimeout)

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", gecho.Field("error", err))
		}
	}
	if err := serviceManager.CacheService.Close(); err != nil {
		logger.Error("Failed to close cache", gecho.Field("error", err))
	}
}
