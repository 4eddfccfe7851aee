// Package main is the entry point for the classifieds-service API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"classifieds-service/internal/app/service"
	"classifieds-service/internal/auth"
	"classifieds-service/internal/captcha"
	"classifieds-service/internal/config"
	"classifieds-service/internal/infra/gemini"
	"classifieds-service/internal/infra/httpclient"
	rediscache "classifieds-service/internal/infra/redis"
	"classifieds-service/internal/infra/telegram"
	"classifieds-service/internal/job"
	"classifieds-service/internal/logger"
	"classifieds-service/internal/store"
	"classifieds-service/internal/transport/httpserver"
	"classifieds-service/internal/validator"
	"classifieds-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting classifieds-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Create listing store
	listingStore := store.New(
		store.Config{
			DataDir:     cfg.Store.DataDir,
			CacheTTL:    cfg.Store.CacheTTL,
			LockTimeout: cfg.Store.LockTimeout,
		},
		log.Logger,
	)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Ping Redis to verify connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	// Redis-backed infrastructure
	translationCache := rediscache.NewCache(redisClient, log.Logger, cfg.App.Name)
	presence := rediscache.NewPresence(redisClient, log.Logger, cfg.Presence.Window)

	// Telegram Bot API client (notifications and photo storage)
	telegramClient := telegram.New(
		telegram.Config{
			BotToken:     cfg.Telegram.BotToken,
			NotifyChatID: cfg.Telegram.NotifyChatID,
			PhotoChannel: cfg.Telegram.PhotoChannel,
		},
		httpclient.ClientConfig{
			BaseURL: cfg.Telegram.BaseURL,
			Timeout: cfg.Telegram.Timeout,
			Retry: httpclient.RetryConfig{
				MaxAttempts: cfg.Telegram.Retry.MaxAttempts,
				WaitTime:    cfg.Telegram.Retry.WaitTime,
				MaxWaitTime: cfg.Telegram.Retry.MaxWaitTime,
			},
			CB: httpclient.CBConfig{
				MaxRequests:  cfg.Telegram.CB.MaxRequests,
				Interval:     cfg.Telegram.CB.Interval,
				Timeout:      cfg.Telegram.CB.Timeout,
				FailureRatio: cfg.Telegram.CB.FailureRatio,
			},
		},
		log.Logger,
	)
	if cfg.Telegram.BotToken == "" {
		log.Info("telegram integration disabled, notifications and photo refresh are no-ops")
	}

	// Gemini client for machine translation
	geminiClient := gemini.New(
		gemini.Config{
			APIKey: cfg.Translate.APIKey,
			Model:  cfg.Translate.Model,
		},
		httpclient.ClientConfig{
			BaseURL: cfg.Translate.BaseURL,
			Timeout: cfg.Translate.Timeout,
			Retry: httpclient.RetryConfig{
				MaxAttempts: cfg.Telegram.Retry.MaxAttempts,
				WaitTime:    cfg.Telegram.Retry.WaitTime,
				MaxWaitTime: cfg.Telegram.Retry.MaxWaitTime,
			},
			CB: httpclient.CBConfig{
				MaxRequests:  cfg.Telegram.CB.MaxRequests,
				Interval:     cfg.Telegram.CB.Interval,
				Timeout:      cfg.Telegram.CB.Timeout,
				FailureRatio: cfg.Telegram.CB.FailureRatio,
			},
		},
		log.Logger,
	)

	// Moderation credentials and captcha
	authenticator := auth.New(cfg.Admin.Passwords, cfg.Admin.SuperPassword)
	captchaStore := captcha.New(cfg.Captcha.TTL, cfg.Captcha.MaxPending)

	// Create services
	listingSvc := service.NewListingService(listingStore, telegramClient, log.Logger)
	adminSvc := service.NewAdminService(listingStore, authenticator, telegramClient, telegramClient, log.Logger)
	moderationSvc := service.NewModerationService(
		listingStore,
		authenticator,
		captchaStore,
		telegramClient,
		telegramClient,
		telegramClient,
		log.Logger,
	)
	translateSvc := service.NewTranslateService(geminiClient, translationCache, cfg.Translate.CacheTTL, log.Logger)

	// Create distributed locker
	distLocker := locker.NewRedisLocker(redisClient, log.Logger)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:           cfg.App.Port,
			BodyLimit:      8 * 1024 * 1024, // multipart submissions carry up to four 1MB photos
			Debug:          cfg.App.Debug,
			DefaultCountry: cfg.App.DefaultCountry,
			DataDir:        cfg.Store.DataDir,
		},
		listingSvc,
		adminSvc,
		moderationSvc,
		translateSvc,
		captchaStore,
		presence,
		redisClient,
		v,
		log.Logger,
	)

	// Start aggregate reconcile scheduler with distributed locking
	scheduler := job.NewReconcileScheduler(
		listingStore,
		job.ReconcileConfig{
			Interval:  cfg.Reconcile.Interval,
			OnStartup: cfg.Reconcile.OnStartup,
		},
		log.Logger,
		distLocker,
	)
	scheduler.Start(cfg.Reconcile.OnStartup)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		// Stop scheduler
		scheduler.Stop()

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
