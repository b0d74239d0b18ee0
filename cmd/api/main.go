package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/fkhayef/splitledger/internal/config"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/metrics"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/internal/settlement"
	"github.com/fkhayef/splitledger/internal/split"
	"github.com/fkhayef/splitledger/pkg/logging"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)
	if envErr != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}
	logger.Info("connected to database")

	recorder := metrics.NewRecorder()

	// Group feature, also the member directory for splits
	groupService := group.NewService(group.NewRepository(db), logger)
	groupHandler := group.NewHandler(groupService)

	// Notification feature: inbox always, redis when configured
	notificationService := notification.NewService(notification.NewRepository(db), logger)
	sinks := []notification.Sink{notificationService}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = notification.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		sinks = append(sinks, notification.NewRedisPublisher(redisClient, cfg.RedisChannel))
		logger.Info("publishing split events to redis", "channel", cfg.RedisChannel)
	}

	dispatcher := notification.NewDispatcher(logger, sinks, notification.WithDeliveryObserver(recorder))

	// Split feature
	templateStore := split.NewTemplateRepository(db)
	splitService := split.NewService(
		split.NewRepository(db),
		templateStore,
		groupService,
		split.WithStrictSettlement(cfg.StrictSettlement),
		split.WithPublisher(dispatcher),
		split.WithObserver(recorder),
		split.WithLogger(logger),
	)
	templateService := split.NewTemplateService(templateStore, logger)

	// Balances derived from split shares
	balanceService := settlement.NewService(splitService, groupService, logger)

	r := newRouter(cfg, logger, recorder, handlers{
		groups:        groupHandler,
		splits:        split.NewHandler(splitService),
		templates:     split.NewTemplateHandler(templateService, splitService),
		balances:      settlement.NewHandler(balanceService),
		notifications: notification.NewHandler(notificationService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "auth_mode", cfg.AuthMode, "strict_settlement", cfg.StrictSettlement)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	// Drain events from requests that finished before shutdown
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Error("notification drain", "error", err)
	}
	return nil
}
