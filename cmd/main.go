package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	changeStatusHandler "github.com/emer5om/horaly-pro-sub000/internal/api/handlers/change_appointment_status"
	createBookingHandler "github.com/emer5om/horaly-pro-sub000/internal/api/handlers/create_booking"
	getAppointmentHandler "github.com/emer5om/horaly-pro-sub000/internal/api/handlers/get_appointment"
	getBookingRulesHandler "github.com/emer5om/horaly-pro-sub000/internal/api/handlers/get_booking_rules"
	getDayHandler "github.com/emer5om/horaly-pro-sub000/internal/api/handlers/get_day_availability"
	getMonthHandler "github.com/emer5om/horaly-pro-sub000/internal/api/handlers/get_month_availability"
	healthHandler "github.com/emer5om/horaly-pro-sub000/internal/api/handlers/health"
	listAppointmentsHandler "github.com/emer5om/horaly-pro-sub000/internal/api/handlers/list_appointments"
	updateBookingRulesHandler "github.com/emer5om/horaly-pro-sub000/internal/api/handlers/update_booking_rules"
	"github.com/emer5om/horaly-pro-sub000/internal/api/middleware"
	"github.com/emer5om/horaly-pro-sub000/internal/config"
	"github.com/emer5om/horaly-pro-sub000/internal/infra/cache/monthcache"
	appointmentRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/appointment"
	blockingRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/blocking"
	catalogRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/catalog"
	couponRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/coupon"
	customerRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/customer"
	establishmentRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/establishment"
	planRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/plan"
	"github.com/emer5om/horaly-pro-sub000/internal/integrations/notifications"
	appointmentsService "github.com/emer5om/horaly-pro-sub000/internal/service/appointments"
	rulesService "github.com/emer5om/horaly-pro-sub000/internal/service/rules"
	scheduleService "github.com/emer5om/horaly-pro-sub000/internal/service/schedule"
	changeStatusUC "github.com/emer5om/horaly-pro-sub000/internal/usecase/change_appointment_status"
	createBookingUC "github.com/emer5om/horaly-pro-sub000/internal/usecase/create_booking"
	getDayUC "github.com/emer5om/horaly-pro-sub000/internal/usecase/get_day_availability"
	getMonthUC "github.com/emer5om/horaly-pro-sub000/internal/usecase/get_month_availability"
	updateBookingRulesUC "github.com/emer5om/horaly-pro-sub000/internal/usecase/update_booking_rules"
	"github.com/emer5om/horaly-pro-sub000/pkg/dbmetrics"
	"github.com/emer5om/horaly-pro-sub000/pkg/logger"
	"github.com/emer5om/horaly-pro-sub000/pkg/metrics"
	"github.com/emer5om/horaly-pro-sub000/pkg/tracing"
	"github.com/emer5om/horaly-pro-sub000/pkg/txmanager"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting horaly booking service...")
	log.Info("Configuration loaded from %s", configPath)

	// Трейсинг (при выключенном только пропагаторы W3C)
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Tracing.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}

	// Инициализируем метрики (если включены). nil-коллектор ничего не пишет.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	establishmentRepository := establishmentRepo.NewRepository(wrappedDB, log)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	blockingRepository := blockingRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	customerRepository := customerRepo.NewRepository(wrappedDB)
	couponRepository := couponRepo.NewRepository(wrappedDB)
	planRepository := planRepo.NewRepository(wrappedDB)

	// Redis: кэш календаря и rate limit публичной записи.
	// Интерфейсные переменные остаются nil, если Redis выключен.
	var (
		rdb         *redis.Client
		monthCache  getMonthUC.MonthCache
		invalidator createBookingUC.CacheInvalidator
	)
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s, cache and rate limiter will degrade: %v", cfg.Redis.Addr, err)
		}
		cancel()

		cache := monthcache.New(rdb, time.Duration(cfg.Redis.AvailabilityTTLSeconds)*time.Second, metricsCollector, log)
		monthCache = cache
		invalidator = cache
		log.Info("Redis enabled (addr=%s, availability ttl=%ds)", cfg.Redis.Addr, cfg.Redis.AvailabilityTTLSeconds)
	}

	// Kafka: события о записях. Без брокеров publisher молча ничего не шлёт.
	var writer notifications.Writer
	if cfg.Kafka.Enabled {
		writer = notifications.NewKafkaWriter(cfg.Kafka.Brokers)
		log.Info("Kafka publishing enabled (brokers=%v)", cfg.Kafka.Brokers)
	}
	publisher := notifications.NewPublisher(
		writer,
		notifications.Topics{
			Created:       cfg.Kafka.TopicCreated,
			StatusChanged: cfg.Kafka.TopicStatusChanged,
		},
		time.Duration(cfg.Booking.PublishTimeoutMsecs)*time.Millisecond,
		log,
		metricsCollector,
	)
	defer publisher.Close()

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		establishmentRepository,
		catalogRepository,
		blockingRepository,
		appointmentRepository,
		log,
	).WithTxManager(txMgr)
	rulesSvc := rulesService.NewService(establishmentRepository, log)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, rulesSvc, log)

	// Инициализируем use cases
	getDayUseCase := getDayUC.NewUseCase(scheduleSvc, cfg.Booking.SlotStepMinutes, log)
	getMonthUseCase := getMonthUC.NewUseCase(scheduleSvc, monthCache, cfg.Booking.SlotStepMinutes, log)

	createBookingUseCase := createBookingUC.NewUseCase(createBookingUC.Dependencies{
		Schedule:       scheduleSvc,
		Establishments: establishmentRepository,
		Appointments:   appointmentRepository,
		Plans:          planRepository,
		Customers:      customerRepository,
		Coupons:        couponRepository,
		TxManager:      txMgr,
		Notifier:       publisher,
		Cache:          invalidator,
		Metrics:        metricsCollector,
		Logger:         log,
	}, cfg.Booking.SlotStepMinutes)

	changeStatusUseCase := changeStatusUC.NewUseCase(
		rulesSvc,
		appointmentRepository,
		txMgr,
		publisher,
		invalidator,
		metricsCollector,
		log,
	)

	updateBookingRulesUseCase := updateBookingRulesUC.NewUseCase(
		rulesSvc,
		establishmentRepository,
		invalidator,
		log,
	)

	// Инициализируем handlers
	getDay := getDayHandler.NewHandler(getDayUseCase, log)
	getMonth := getMonthHandler.NewHandler(getMonthUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	changeStatus := changeStatusHandler.NewHandler(changeStatusUseCase, log)
	getBookingRules := getBookingRulesHandler.NewHandler(rulesSvc, log)
	updateBookingRules := updateBookingRulesHandler.NewHandler(updateBookingRulesUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	health := healthHandler.NewHandler(wrappedDB, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.Live).Methods(http.MethodGet)
	r.HandleFunc("/readyz", health.Ready).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (страница записи заведения, без аутентификации)
	// ============================================================

	api.HandleFunc("/establishments/{slug}/availability/day", getDay.Handle).Methods(http.MethodGet)
	api.HandleFunc("/establishments/{slug}/availability/month", getMonth.Handle).Methods(http.MethodGet)

	var createBookingRoute http.Handler = http.HandlerFunc(createBooking.Handle)
	if rdb != nil {
		limiter := middleware.NewRateLimiter(rdb, cfg.Booking.RateLimitPerMinute, time.Minute, "rl:booking")
		createBookingRoute = limiter.Middleware(log, cfg.Booking.RateLimitFailOpen)(createBookingRoute)
		log.Info("Booking rate limit: %d req/min per client (fail open=%t)",
			cfg.Booking.RateLimitPerMinute, cfg.Booking.RateLimitFailOpen)
	}
	api.Handle("/establishments/{slug}/bookings", createBookingRoute).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-User-ID владельца заведения)
	// ============================================================

	admin := api.PathPrefix("/establishments/{establishmentId:[0-9]+}").Subrouter()
	admin.Use(middleware.Auth)

	// --- Правила записи ---
	admin.HandleFunc("/booking-rules", getBookingRules.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/booking-rules", updateBookingRules.Handle).Methods(http.MethodPut)

	// --- Агенда ---
	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId:[0-9]+}", getAppointment.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId:[0-9]+}/status", changeStatus.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, "http.server"),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Tracing shutdown failed: %v", err)
	}

	log.Info("Server stopped gracefully")
}
