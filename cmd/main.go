package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	applyBookingActionHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/apply_booking_action"
	cancelBookingHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/cancel_booking"
	checkInHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/check_in"
	createBookingHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/create_booking"
	getAnalyticsHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/get_analytics"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/get_booking"
	getBookingQRHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/get_booking_qr"
	getDashboardHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/get_dashboard"
	getProfileHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/get_profile"
	getRecommendedSlotsHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/get_recommended_slots"
	getUserBookingsHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/list_bookings"
	listServicesHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/list_services"
	manageBlockedDatesHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/manage_blocked_dates"
	manageServicesHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/manage_services"
	manageSlotsHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/manage_slots"
	registerUserHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/register_user"
	setUserRoleHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/set_user_role"
	updateProfileHandler "github.com/m04kA/SMC-SmartQueue/internal/api/handlers/update_profile"
	"github.com/m04kA/SMC-SmartQueue/internal/api/middleware"
	"github.com/m04kA/SMC-SmartQueue/internal/config"
	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	trafficCache "github.com/m04kA/SMC-SmartQueue/internal/infra/cache/traffic"
	"github.com/m04kA/SMC-SmartQueue/internal/infra/events"
	analyticsRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/analytics"
	blockedDateRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/blockeddate"
	bookingRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/booking"
	profileRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/profile"
	serviceRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/service"
	slotRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SmartQueue/internal/integrations/mailer"
	analyticsService "github.com/m04kA/SMC-SmartQueue/internal/service/analytics"
	bookingsService "github.com/m04kA/SMC-SmartQueue/internal/service/bookings"
	"github.com/m04kA/SMC-SmartQueue/internal/service/capacity"
	catalogService "github.com/m04kA/SMC-SmartQueue/internal/service/catalog"
	notificationsService "github.com/m04kA/SMC-SmartQueue/internal/service/notifications"
	profilesService "github.com/m04kA/SMC-SmartQueue/internal/service/profiles"
	recommenderService "github.com/m04kA/SMC-SmartQueue/internal/service/recommender"
	createBookingUC "github.com/m04kA/SMC-SmartQueue/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SmartQueue/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SmartQueue/pkg/dbmetrics"
	"github.com/m04kA/SMC-SmartQueue/pkg/logger"
	"github.com/m04kA/SMC-SmartQueue/pkg/metrics"
	"github.com/m04kA/SMC-SmartQueue/pkg/tracing"
	"github.com/m04kA/SMC-SmartQueue/pkg/txmanager"
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

	log.Info("Starting SMC-SmartQueue...")
	log.Info("Configuration loaded from %s", configPath)

	// Трейсинг
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to set up tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены)
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

	// Без метрик обёртка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB).WithMaxRetries(cfg.Booking.MaxTxRetries)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	blockedDateRepository := blockedDateRepo.NewRepository(wrappedDB)
	profileRepository := profileRepo.NewRepository(wrappedDB)
	analyticsRepository := analyticsRepo.NewRepository(wrappedDB)

	// Кеш трафика в Redis. Недоступный Redis не мешает старту: рекомендации читают из БД
	var cache recommenderService.TrafficCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis at %s is unavailable, traffic cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			cache = trafficCache.NewCache(rdb, time.Duration(cfg.Redis.TTL)*time.Second)
			log.Info("Traffic cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
		}
		cancel()
	}

	// Публикация событий
	var publisher interface {
		notificationsService.EventPublisher
		Close() error
	} = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(strings.Split(cfg.Kafka.Brokers, ","), cfg.Kafka.Topic)
		log.Info("Kafka events enabled (brokers=%s, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer publisher.Close()

	// Почта
	var mail notificationsService.Mailer
	if cfg.SMTP.Enabled {
		mail = mailer.NewClient(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, log)
		log.Info("Email notifications enabled (smtp=%s:%d)", cfg.SMTP.Host, cfg.SMTP.Port)
	}

	// Инициализируем сервисы
	tracker := capacity.NewTracker(slotRepository, bookingRepository)
	notifier := notificationsService.NewService(mail, publisher, profileRepository, metricsCollector, log)
	recommender := recommenderService.NewService(
		bookingRepository,
		slotRepository,
		tracker,
		cache,
		recommenderService.Config{
			LookbackDays: cfg.Recommender.LookbackDays,
			DefaultLimit: cfg.Recommender.DefaultLimit,
		},
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		profileRepository,
		tracker,
		txMgr,
		notifier,
		metricsCollector,
		log,
	)
	catalogSvc := catalogService.NewService(
		serviceRepository,
		slotRepository,
		blockedDateRepository,
		tracker,
		txMgr,
		log,
	)
	analyticsSvc := analyticsService.NewService(
		analyticsRepository,
		bookingRepository,
		serviceRepository,
		txMgr,
		log,
	)
	profileSvc := profilesService.NewService(profileRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		blockedDateRepository,
		serviceRepository,
		tracker,
		txMgr,
		notifier,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		blockedDateRepository,
		tracker,
		recommender,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getRecommendedSlots := getRecommendedSlotsHandler.NewHandler(recommender, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookingQR := getBookingQRHandler.NewHandler(bookingSvc, cfg.Server.PublicURL, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	applyBookingAction := applyBookingActionHandler.NewHandler(bookingSvc, log)
	checkIn := checkInHandler.NewHandler(bookingSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	manageServices := manageServicesHandler.NewHandler(catalogSvc, log)
	manageSlots := manageSlotsHandler.NewHandler(catalogSvc, log)
	manageBlockedDates := manageBlockedDatesHandler.NewHandler(catalogSvc, log)
	getDashboard := getDashboardHandler.NewHandler(analyticsSvc, log)
	getAnalytics := getAnalyticsHandler.NewHandler(analyticsSvc, log)
	registerUser := registerUserHandler.NewHandler(profileSvc, log)
	getProfile := getProfileHandler.NewHandler(profileSvc, log)
	updateProfile := updateProfileHandler.NewHandler(profileSvc, log)
	setUserRole := setUserRoleHandler.NewHandler(profileSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/recommended-slots", getRecommendedSlots.Handle).Methods(http.MethodGet)

	// Регистрация по QR токену на стойке
	api.HandleFunc("/checkin/{token}", checkIn.Handle).Methods(http.MethodPost)

	// Событие регистрации от сервиса аутентификации (сеть доверенная)
	api.HandleFunc("/internal/users/registered", registerUser.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/qr", getBookingQR.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Пользователь ---
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/profile", getProfile.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/profile", updateProfile.Handle).Methods(http.MethodPut)

	// ============================================================
	// STAFF ROUTES (роль staff или admin)
	// ============================================================

	staff := protected.PathPrefix("/admin").Subrouter()
	staff.Use(middleware.RequireRole(profileSvc, domain.RoleStaff, log))

	staff.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/bookings/{bookingId}/{action}", applyBookingAction.Handle).Methods(http.MethodPost)
	staff.HandleFunc("/dashboard", getDashboard.Handle).Methods(http.MethodGet)

	staff.HandleFunc("/services", manageServices.List).Methods(http.MethodGet)
	staff.HandleFunc("/services", manageServices.Create).Methods(http.MethodPost)
	staff.HandleFunc("/services/{serviceId}", manageServices.Update).Methods(http.MethodPut)

	staff.HandleFunc("/slots", manageSlots.List).Methods(http.MethodGet)
	staff.HandleFunc("/slots", manageSlots.Create).Methods(http.MethodPost)
	staff.HandleFunc("/slots/{slotId}", manageSlots.Update).Methods(http.MethodPut)
	staff.HandleFunc("/slots/{slotId}", manageSlots.Delete).Methods(http.MethodDelete)

	staff.HandleFunc("/blocked-dates", manageBlockedDates.List).Methods(http.MethodGet)
	staff.HandleFunc("/blocked-dates", manageBlockedDates.Create).Methods(http.MethodPost)
	staff.HandleFunc("/blocked-dates/{blockedDateId}", manageBlockedDates.Delete).Methods(http.MethodDelete)

	// ============================================================
	// ADMIN ROUTES
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(profileSvc, domain.RoleAdmin, log))

	admin.HandleFunc("/analytics", getAnalytics.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userId}/role", setUserRole.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся писем и событий, отправленных после коммита, в пределах shutdown_timeout
	if err := notifier.WaitContext(shutdownCtx); err != nil {
		log.Warn("Pending notifications aborted: %v", err)
	} else {
		log.Info("Pending notifications flushed")
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
