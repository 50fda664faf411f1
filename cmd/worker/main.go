package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/promisepoint/lending-service/internal/application/service"
	"github.com/promisepoint/lending-service/internal/config"
	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/promisepoint/lending-service/internal/infrastructure/messaging"
	sqlrepository "github.com/promisepoint/lending-service/internal/infrastructure/repository/mysql"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local",
		cfg.MySQL.User,
		cfg.MySQL.Password,
		cfg.MySQL.Host,
		cfg.MySQL.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal("failed to connect to MySQL", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get underlying sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	logger.Info("connected to Redis successfully")

	repos := sqlrepository.NewRepositories(db, redisClient, logger)

	notificationService := service.NewNotificationService(logger)
	reconciliationService := service.NewReconciliationService(repos.Loan, logger)

	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("worker-%s-%d", hostname, os.Getpid())
	eventSubscriber := messaging.NewRedisEventSubscriber(redisClient, logger, consumerName)

	subscriptions := map[string]domain.EventHandler{
		domain.EventTypeLoanApproved:    notificationService.HandleLoanApproved,
		domain.EventTypeLoanActivated:   notificationService.HandleLoanActivated,
		domain.EventTypePickupProcessed: notificationService.HandlePickupProcessed,
	}
	for eventType, handler := range subscriptions {
		if err := eventSubscriber.Subscribe(ctx, eventType, handler); err != nil {
			logger.Fatal("failed to subscribe to events",
				zap.Error(err),
				zap.String("event_type", eventType),
			)
		}
	}

	logger.Info("worker started",
		zap.String("consumer", consumerName),
		zap.Int("subscriptions", len(subscriptions)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Nightly sweep: settle paid-off loans and flag past-due ones.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Worker.ReconcileSchedule, func() {
		runCtx, runCancel := context.WithTimeout(ctx, 10*time.Minute)
		defer runCancel()

		report, err := reconciliationService.Run(runCtx)
		if err != nil {
			logger.Error("loan reconciliation failed", zap.Error(err))
			return
		}

		logger.Info("loan reconciliation complete",
			zap.Int("scanned", report.Scanned),
			zap.Int("completed", report.Completed),
			zap.Int("defaulted", report.Defaulted),
			zap.Int("failed", report.Failed),
		)
	})
	if err != nil {
		logger.Fatal("invalid reconcile schedule",
			zap.Error(err),
			zap.String("schedule", cfg.Worker.ReconcileSchedule),
		)
	}
	scheduler.Start()
	defer scheduler.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down worker...")
		cancel()
	}()

	// Start processing events
	if err := eventSubscriber.Start(ctx); err != nil {
		logger.Info("worker stopped", zap.Error(err))
	}

	logger.Info("worker exited")
}
