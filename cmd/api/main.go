package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hiloazul/tailor-api/internal/config"
	"github.com/hiloazul/tailor-api/internal/handler"
	authHandler "github.com/hiloazul/tailor-api/internal/handler/auth"
	catalogHandler "github.com/hiloazul/tailor-api/internal/handler/catalog"
	customerHandler "github.com/hiloazul/tailor-api/internal/handler/customer"
	draftHandler "github.com/hiloazul/tailor-api/internal/handler/draft"
	establishmentHandler "github.com/hiloazul/tailor-api/internal/handler/establishment"
	orderHandler "github.com/hiloazul/tailor-api/internal/handler/order"
	pricelistHandler "github.com/hiloazul/tailor-api/internal/handler/pricelist"
	scheduleHandler "github.com/hiloazul/tailor-api/internal/handler/schedule"
	userHandler "github.com/hiloazul/tailor-api/internal/handler/user"
	workorderHandler "github.com/hiloazul/tailor-api/internal/handler/workorder"
	"github.com/hiloazul/tailor-api/internal/middleware"
	"github.com/hiloazul/tailor-api/internal/pricing"
	"github.com/hiloazul/tailor-api/internal/repository/postgres"
	"github.com/hiloazul/tailor-api/internal/router"
	authService "github.com/hiloazul/tailor-api/internal/service/auth"
	catalogService "github.com/hiloazul/tailor-api/internal/service/catalog"
	customerService "github.com/hiloazul/tailor-api/internal/service/customer"
	draftService "github.com/hiloazul/tailor-api/internal/service/draft"
	establishmentService "github.com/hiloazul/tailor-api/internal/service/establishment"
	eventService "github.com/hiloazul/tailor-api/internal/service/event"
	orderService "github.com/hiloazul/tailor-api/internal/service/order"
	pricelistService "github.com/hiloazul/tailor-api/internal/service/pricelist"
	scheduleService "github.com/hiloazul/tailor-api/internal/service/schedule"
	userService "github.com/hiloazul/tailor-api/internal/service/user"
	workorderService "github.com/hiloazul/tailor-api/internal/service/workorder"
	"github.com/hiloazul/tailor-api/pkg/auth"
	"github.com/hiloazul/tailor-api/pkg/messaging"
	redisBroker "github.com/hiloazul/tailor-api/pkg/messaging/redis"
	"github.com/hiloazul/tailor-api/pkg/metrics"
	"github.com/hiloazul/tailor-api/pkg/security"
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

	// Broker is optional for the API process. Events still land in the
	// outbox and the worker will deliver them.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{
			URL:      cfg.Redis.URL,
			PoolSize: cfg.Redis.PoolSize,
		}, &log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, events will be delivered by the outbox worker only")
			broker = nil
		} else {
			defer broker.Close()
		}
	}

	base := postgres.NewBaseRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	catalogRepo := postgres.NewCatalogRepository(base)
	priceListRepo := postgres.NewPriceListRepository(base)
	orderRepo := postgres.NewOrderRepository(base)
	workOrderRepo := postgres.NewWorkOrderRepository(base)
	draftRepo := postgres.NewDraftRepository(db)
	establishmentRepo := postgres.NewEstablishmentRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(base)

	engine := pricing.NewEngine()
	hasher := security.NewBcryptHasher(0)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry(), cfg.JWT.RefreshExpiry())
	events := eventService.NewService(outboxRepo, broker)

	customers := customerService.NewService(customerRepo)
	catalog := catalogService.NewService(catalogRepo)
	priceLists := pricelistService.NewService(priceListRepo, catalogRepo, engine, events)
	schedules := scheduleService.NewService(scheduleRepo)
	orders := orderService.NewService(orderRepo, customers, catalogRepo, priceListRepo, workOrderRepo, establishmentRepo, schedules, engine, events)
	workOrders := workorderService.NewService(workOrderRepo, orderRepo, events)
	drafts := draftService.NewService(draftRepo)
	establishments := establishmentService.NewService(establishmentRepo)
	users := userService.NewService(userRepo, hasher)
	authSvc := authService.NewService(userRepo, jwtSvc, hasher)

	m := metrics.NewMetrics("tailor", "api")
	h := handler.NewHandler(db)

	r := router.NewRouter(
		jwtSvc,
		h,
		m,
		authHandler.NewHandler(authSvc),
		router.Config{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			CORS:           middleware.DefaultCORSConfig(),
			Timeout:        cfg.Server.Timeout(),
		},
		customerHandler.NewHandler(customers),
		catalogHandler.NewHandler(catalog),
		pricelistHandler.NewHandler(priceLists),
		orderHandler.NewHandler(orders, m),
		workorderHandler.NewHandler(workOrders),
		draftHandler.NewHandler(drafts),
		establishmentHandler.NewHandler(establishments),
		scheduleHandler.NewHandler(schedules),
		userHandler.NewHandler(users),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
