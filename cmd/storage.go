package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/config"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/memory"
	scheduleRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduler/pkg/metrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/txmanager"
)

// appointmentStore общий контракт postgres и in-memory хранилищ записей
type appointmentStore interface {
	InsertIfFree(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByRequestID(ctx context.Context, clientID int64, requestID string) (*domain.Appointment, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error)
	ListByClient(ctx context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, expected, target domain.AppointmentStatus, update domain.StatusUpdate) (*domain.Appointment, error)
	AttachReview(ctx context.Context, id int64, review domain.Review) (*domain.Appointment, error)
}

// scheduleStore общий контракт хранилищ расписаний
type scheduleStore interface {
	GetWorkingHours(ctx context.Context, employeeID int64) (*domain.WorkingHours, error)
	SetWorkingHours(ctx context.Context, hours *domain.WorkingHours) error
	AddTimeOff(ctx context.Context, timeOff *domain.TimeOff) error
	GetTimeOff(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.TimeOff, error)
	IsDayOff(ctx context.Context, employeeID int64, date time.Time) (bool, error)
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	appointments appointmentStore
	schedules    scheduleStore
	tx           txManager
	close        func()
}

// openStorage поднимает хранилище по storage.driver
func openStorage(
	cfg *config.Config,
	loc *time.Location,
	metricsCollector *metrics.Metrics,
	stopMetricsCh <-chan struct{},
	log *logger.Logger,
) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn("Using in-memory storage, data will be lost on restart")
		return &storage{
			appointments: memory.NewAppointmentStore(),
			schedules:    memory.NewScheduleStore(),
			tx:           txmanager.NopManager{},
			close:        func() {},
		}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка работает как прозрачный прокси
	var wrappedDB *dbmetrics.DB
	if metricsCollector != nil {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}

	return &storage{
		appointments: appointmentRepo.NewRepository(wrappedDB, loc),
		schedules:    scheduleRepo.NewRepository(wrappedDB, loc),
		tx:           txmanager.NewTransactionManager(wrappedDB),
		close: func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database: %v", err)
			}
		},
	}, nil
}
