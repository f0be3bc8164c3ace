package main

import (
	"context"
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
	"github.com/spf13/pflag"

	addReviewHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/add_review"
	addTimeOffHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/add_time_off"
	createAppointmentHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_availability"
	getTimeOffHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_time_off"
	getWorkingHoursHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_working_hours"
	listClientAppointmentsHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/list_client_appointments"
	listEmployeeAppointmentsHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/list_employee_appointments"
	setWorkingHoursHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/set_working_hours"
	updateStatusHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/config"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/cache/schedulecache"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/events"
	catalogClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
	appointmentsService "github.com/m04kA/SMC-SalonScheduler/internal/service/appointments"
	schedulesService "github.com/m04kA/SMC-SalonScheduler/internal/service/schedules"
	createAppointmentUC "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_appointment"
	getAvailabilityUC "github.com/m04kA/SMC-SalonScheduler/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduler/pkg/metrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/retry"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to config file")
	pflag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-SalonScheduler...")
	log.Info("Configuration loaded from %s", *configPath)

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid salon timezone: %v", err)
	}
	log.Info("Salon timezone: %s", loc)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище (postgres или in-memory)
	store, err := openStorage(cfg, loc, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()
	log.Info("Storage initialized (driver=%s)", cfg.Storage.Driver)

	// Кэш рабочих часов в Redis (если включен)
	var (
		hoursReader      schedulecache.WorkingHoursStore = store.schedules
		cacheInvalidator schedulesService.CacheInvalidator
	)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s, cache will fall back to storage: %v", cfg.Redis.Addr, err)
		}
		cancel()

		cache := schedulecache.New(redisClient, store.schedules, time.Duration(cfg.Redis.TTL)*time.Second, log)
		hoursReader = cache
		cacheInvalidator = cache
		log.Info("Working hours cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	// Публикация событий жизненного цикла записей
	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic, time.Duration(cfg.Kafka.WriteTimeout)*time.Second)
		kafkaPublisher := events.NewKafkaPublisher(writer)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Failed to close kafka writer: %v", err)
			}
		}()
		publisher = kafkaPublisher
		log.Info("Kafka publisher enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		publisher = events.NewLogPublisher(log)
		log.Info("Kafka disabled, appointment events are written to log")
	}
	notifier := events.NewNotifier(publisher, time.Duration(cfg.Kafka.WriteTimeout)*time.Second, log)

	// Инициализируем интеграционных клиентов
	catalog := catalogClient.NewClient(cfg.Catalog.URL, time.Duration(cfg.Catalog.Timeout)*time.Second)
	log.Info("Catalog client initialized (url=%s, timeout=%ds)", cfg.Catalog.URL, cfg.Catalog.Timeout)

	readRetry := retry.Policy{
		Attempts:        uint(cfg.Booking.ReadRetryAttempts),
		InitialInterval: time.Duration(cfg.Booking.ReadRetryIntervalMs) * time.Millisecond,
		MaxInterval:     retry.DefaultPolicy.MaxInterval,
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		store.appointments,
		catalog,
		notifier,
		metricsCollector,
		log,
	)
	scheduleSvc := schedulesService.NewService(
		store.schedules,
		hoursReader,
		cacheInvalidator,
		catalog,
		store.tx,
		schedulesService.Settings{Location: loc, Retry: readRetry},
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		catalog,
		hoursReader,
		store.schedules,
		store.appointments,
		getAvailabilityUC.Settings{
			Location:                loc,
			SlotStepMinutes:         cfg.Booking.SlotStepMinutes,
			MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
			AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
			Retry:                   readRetry,
		},
		log,
	)

	// Проверка при бронировании идёт мимо кэша
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		store.appointments,
		store.schedules,
		catalog,
		notifier,
		metricsCollector,
		createAppointmentUC.Settings{
			Location:                loc,
			MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
			AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
			Retry:                   readRetry,
		},
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, loc, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, loc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	updateStatus := updateStatusHandler.NewHandler(appointmentSvc, log)
	addReview := addReviewHandler.NewHandler(appointmentSvc, log)
	listEmployeeAppointments := listEmployeeAppointmentsHandler.NewHandler(appointmentSvc, loc, log)
	listClientAppointments := listClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(scheduleSvc, log)
	setWorkingHours := setWorkingHoursHandler.NewHandler(scheduleSvc, log)
	getTimeOff := getTimeOffHandler.NewHandler(scheduleSvc, loc, log)
	addTimeOff := addTimeOffHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты мастера на дату
	api.HandleFunc("/employees/{employeeId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Шаблон рабочих часов и отгулы
	api.HandleFunc("/employees/{employeeId}/working-hours", getWorkingHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/employees/{employeeId}/time-off", getTimeOff.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/review", addReview.Handle).Methods(http.MethodPost)

	// История записей клиента и журнал мастера
	protected.HandleFunc("/clients/{clientId}/appointments", listClientAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/employees/{employeeId}/appointments", listEmployeeAppointments.Handle).Methods(http.MethodGet)

	// --- Управление расписанием (сотрудник или администратор) ---
	protected.HandleFunc("/employees/{employeeId}/working-hours", setWorkingHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/employees/{employeeId}/time-off", addTimeOff.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Дожидаемся отправки событий, запущенных обработчиками
	notifier.Wait()

	log.Info("Server stopped gracefully")
}
