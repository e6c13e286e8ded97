package main

import (
	"context"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"

	"productmanager/internal/app"
	"productmanager/internal/config"
	"productmanager/internal/database"
	"productmanager/internal/logging"
	"productmanager/internal/services"
	"productmanager/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// --- Database ---
	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	// A failed migration or seed leaves the server up; requests will report
	// store errors until the database is fixed.
	if err := database.Initialize(context.Background(), db, cfg.Database.Seed); err != nil {
		logger.Error("Failed to initialize database", zap.Error(err))
	}

	// --- Product events (optional) ---
	var mqClient *rabbitmq.Client
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
		})
		if err != nil {
			logger.Warn("RabbitMQ unavailable, product events disabled", zap.Error(err))
		} else {
			publisher = mqClient
			logger.Info("Publishing product events", zap.String("exchange", mqClient.Exchange()))
		}
	}

	// --- HTTP server ---
	application := app.NewApp(cfg, db, logger, app.Options{
		Publisher: publisher,
		AccessLog: true,
	})

	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.AppPort))
		if err := application.Listen(cfg.AppPort); err != nil {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	operations := map[string]gfshutdown.Operation{
		"http": func(ctx context.Context) error {
			return application.ShutdownWithContext(ctx)
		},
		"database": func(ctx context.Context) error {
			return database.Close(db)
		},
	}
	if mqClient != nil {
		operations["rabbitmq"] = func(ctx context.Context) error {
			return mqClient.Close()
		}
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.ShutdownTimeout, operations)
	exitCode := <-wait
	logger.Info("Server stopped", zap.Int("exit_code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}
