package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hiloazul/tailor-api/internal/config"
	"github.com/hiloazul/tailor-api/internal/email"
	"github.com/hiloazul/tailor-api/internal/repository/postgres"
	draftService "github.com/hiloazul/tailor-api/internal/service/draft"
	internalWorker "github.com/hiloazul/tailor-api/internal/worker"
	"github.com/hiloazul/tailor-api/pkg/logger"
	redisBroker "github.com/hiloazul/tailor-api/pkg/messaging/redis"
	"github.com/hiloazul/tailor-api/pkg/metrics"
	"github.com/hiloazul/tailor-api/pkg/worker"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:      cfg.Redis.URL,
		PoolSize: cfg.Redis.PoolSize,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	appLogger := logger.NewLogger(nil)
	m := metrics.NewMetrics("tailor", "worker")

	base := postgres.NewBaseRepository(db)
	outboxRepo := postgres.NewOutboxRepository(base)
	orderRepo := postgres.NewOrderRepository(base)
	customerRepo := postgres.NewCustomerRepository(db)
	draftRepo := postgres.NewDraftRepository(db)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval(),
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    time.Second,
	}, appLogger, m)

	emailSvc := email.NewSMTPService(cfg.SMTP)
	drafts := draftService.NewService(draftRepo)

	scheduler := internalWorker.NewScheduler(
		internalWorker.NewReminderJob(orderRepo, customerRepo, emailSvc, appLogger, m),
		internalWorker.NewDraftCleanupJob(drafts, appLogger, m),
		internalWorker.NewOutboxPruneJob(outboxRepo, appLogger),
		appLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := internalWorker.NewReadyNotifier(broker, customerRepo, emailSvc, appLogger)

	go processor.Start(ctx)
	go func() {
		if err := notifier.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("ready notifier stopped")
		}
	}()
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start job scheduler")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker")

	cancel()
	scheduler.Stop()
}
