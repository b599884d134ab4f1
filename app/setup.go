package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/api"
	"github.com/codeotter0201/fullstack-lms-challenge/config"
	"github.com/codeotter0201/fullstack-lms-challenge/database"
	"github.com/codeotter0201/fullstack-lms-challenge/router"
	"github.com/codeotter0201/fullstack-lms-challenge/services"
	"github.com/codeotter0201/fullstack-lms-challenge/services/cron"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/auth"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/cache"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/metrics"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/middleware"
)

const (
	lockTTL  = 30 * time.Second
	lockWait = 10 * time.Second
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}
	env, err := config.Get()
	if err != nil {
		return err
	}
	if err := env.Validate(); err != nil {
		return err
	}

	log, err := logger.New(env.LOG_MODE)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	// Initialize GORM database connection
	store, err := database.StartGORM(env)
	if err != nil {
		log.Error("database connection failed, check that the database is running", "driver", env.DB_DRIVER)
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Error("failed to run migrations", "error", err.Error())
		return err
	}

	if env.SEED_DEMO_DATA {
		if err := database.NewSeeder(store.DB(), log).SeedAll(context.Background()); err != nil {
			return err
		}
	}

	// Key locks: Redis when configured, otherwise in-process
	var locker services.KeyLocker = services.NewLocalLocker()
	if env.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			log.Warn("redis unavailable, falling back to in-process locks", "error", err.Error())
		} else {
			defer redisCache.Close()
			locker = services.NewRedisLocker(redisCache, lockTTL, lockWait)
			log.Info("using redis key locks")
		}
	}

	var signer services.MediaSigner
	if env.MediaSigningEnabled() {
		s3Signer, err := services.NewS3MediaSigner(services.S3SignerConfig{
			AccessKey: env.MEDIA_ACCESS_KEY,
			SecretKey: env.MEDIA_SECRET_KEY,
			Bucket:    env.MEDIA_BUCKET,
			Region:    env.MEDIA_REGION,
			Endpoint:  env.MEDIA_ENDPOINT,
			TTL:       env.MEDIA_URL_TTL,
		})
		if err != nil {
			return fmt.Errorf("failed to configure media signing: %w", err)
		}
		signer = s3Signer
	}

	metrics.Register()

	// Cron jobs are optional; a failure to start them does not stop the server
	if env.CRON_ENABLED {
		cronManager := cron.NewCronManager(store.DB(), log)
		if err := cronManager.Start(); err != nil {
			log.Warn("failed to start cron jobs", "error", err.Error())
		} else {
			defer cronManager.Stop()
		}
	}

	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), log)
	app := server.GetEngine()

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: 300,
		RateLimitWindow:   time.Minute,
	}, log)

	router.SetupRoutes(app, store, router.Options{
		JWTManager: auth.NewJWTManager(auth.JWTConfig{
			Secret: env.JWT_SECRET,
			Issuer: env.JWT_ISSUER,
		}),
		Locker: locker,
		Signer: signer,
		Log:    log,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			log.Error("shutdown failed", "error", err.Error())
		}
	}()

	return server.Run()
}
