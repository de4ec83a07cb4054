package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"push-service/internal/config"
	"push-service/internal/database/postgres"
	"push-service/internal/database/redis"
	"push-service/internal/event"
	"push-service/internal/google"
	"push-service/internal/handlers"
	"push-service/internal/repository"
	"push-service/internal/services"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogmulti "github.com/samber/slog-multi"
)

func setupLogging(logDir string) (*os.File, error) {
	fmt.Println("Log directory:", logDir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(
		slog.NewJSONHandler(file, &slog.HandlerOptions{AddSource: true}),
		slog.NewTextHandler(os.Stdout, nil),
	)))

	return file, nil
}

func newProfileRepository(ctx context.Context, cfg *config.NotificationService, firebaseService *google.FirebaseService) (repository.IProfileRepository, func(), error) {
	timeout := cfg.ProfileStoreCfg.Timeout

	switch cfg.ProfileStoreCfg.Backend {
	case config.BackendRedis:
		client, err := redis.NewRedisClient(cfg.RedisCfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisProfileRepository(client, cfg.RedisCfg.TokenKey, timeout), func() { client.Close() }, nil

	case config.BackendPostgres:
		db, err := postgres.Connect(cfg.PostgresCfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresProfileRepository(db, timeout), func() { db.Close() }, nil

	default:
		client, err := firebaseService.Firestore(ctx)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewFirestoreProfileRepository(client, cfg.GoogleConfig.UsersCollection, cfg.GoogleConfig.TokenField, timeout)
		return repo, func() { client.Close() }, nil
	}
}

type changeConsumer interface {
	StartConsuming(ctx context.Context) error
}

// runConsumer blocks until the consumer returns. If it returns before ctx is
// done, the process is stopped the same way a failed listener stops it.
func runConsumer(ctx context.Context, consumer changeConsumer, stop context.CancelFunc) {
	err := consumer.StartConsuming(ctx)
	if ctx.Err() != nil {
		return
	}
	slog.Error("Consumer stopped, shutting down", "error", err)
	stop()
}

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := setupLogging(cfg.LogDir)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	firebaseService, err := google.NewFirebaseService(ctx, &google.FirebaseConfig{
		CredentialsPath: cfg.GoogleConfig.FirebaseCredentials,
		ProjectID:       cfg.GoogleConfig.FirebaseProjectID,
		BatchSize:       cfg.DeliveryCfg.BatchSize,
		Timeout:         cfg.DeliveryCfg.Timeout,
		AndroidPriority: cfg.DeliveryCfg.AndroidPriority,
		Sound:           cfg.DeliveryCfg.Sound,
	})
	if err != nil {
		slog.Error("Failed to initialize Firebase", "error", err)
		os.Exit(1)
	}

	profiles, closeProfiles, err := newProfileRepository(ctx, cfg, firebaseService)
	if err != nil {
		slog.Error("Failed to initialize profile store", "backend", cfg.ProfileStoreCfg.Backend, "error", err)
		os.Exit(1)
	}
	defer closeProfiles()

	pushService := services.NewPushService(
		services.NewRecipientResolver(profiles),
		services.NewDeliveryDispatcher(firebaseService, cfg.DeliveryCfg.BatchSize),
		slog.Default(),
	)

	if cfg.RabbitMQCfg.Enabled {
		consumer, err := event.NewQueueConsumer(&event.ConsumerConfig{
			RabbitMQURL:     cfg.RabbitMQCfg.URL(),
			QueueName:       cfg.RabbitMQCfg.QueueName,
			DeadLetterQueue: cfg.RabbitMQCfg.DeadLetterQueue,
			PrefetchCount:   cfg.RabbitMQCfg.PrefetchCount,
		}, pushService)
		if err != nil {
			slog.Error("Failed to setup queue consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()

		go runConsumer(ctx, consumer, stop)
	}

	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Push service is healthy")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// one invocation may scan the profile store and then send
	invocationTimeout := cfg.ProfileStoreCfg.Timeout + cfg.DeliveryCfg.Timeout
	handlers.NewTriggerHandler(pushService, invocationTimeout).Register(app)

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", cfg.Port)); err != nil {
			slog.Error("Error starting server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
