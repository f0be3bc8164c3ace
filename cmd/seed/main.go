package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	"github.com/m04kA/SMC-SalonScheduler/internal/config"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduler/pkg/txmanager"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

var (
	durations     = []int{30, 45, 60, 90}
	timeOffReason = []string{"Отпуск", "Больничный", "Обучение", "Личные дела"}
)

type seeder struct {
	appointments *appointmentRepo.Repository
	schedules    *scheduleRepo.Repository
	tx           *txmanager.TransactionManager
	loc          *time.Location
	log          *logger.Logger
}

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to config file")
	employees := pflag.Int("employees", 5, "number of employees (ids 1..N)")
	clients := pflag.Int("clients", 50, "number of clients (ids 1..N)")
	days := pflag.Int("days", 14, "how many days ahead to fill with appointments")
	perDay := pflag.Int("per-day", 4, "appointments per employee per day")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid salon timezone: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	wrappedDB := dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	s := &seeder{
		appointments: appointmentRepo.NewRepository(wrappedDB, loc),
		schedules:    scheduleRepo.NewRepository(wrappedDB, loc),
		tx:           txmanager.NewTransactionManager(wrappedDB),
		loc:          loc,
		log:          log,
	}

	gofakeit.Seed(time.Now().UnixNano())

	log.Info("Seed starting (employees=%d, clients=%d, days=%d)", *employees, *clients, *days)

	today := domain.DateOf(time.Now().In(loc))
	for employeeID := int64(1); employeeID <= int64(*employees); employeeID++ {
		hours, err := s.seedWorkingHours(ctx, employeeID)
		if err != nil {
			log.Fatal("Failed to seed working hours for employee %d: %v", employeeID, err)
		}

		daysOff, err := s.seedTimeOff(ctx, employeeID, today, *days)
		if err != nil {
			log.Fatal("Failed to seed time off for employee %d: %v", employeeID, err)
		}

		created, err := s.seedAppointments(ctx, hours, daysOff, today, *days, *perDay, *clients)
		if err != nil {
			log.Fatal("Failed to seed appointments for employee %d: %v", employeeID, err)
		}
		log.Info("Employee %d seeded: %d appointments, %d days off", employeeID, created, len(daysOff))
	}

	log.Info("Seed complete")
}

// seedWorkingHours пн-пт, суббота случайно
func (s *seeder) seedWorkingHours(ctx context.Context, employeeID int64) (*domain.WorkingHours, error) {
	hours := &domain.WorkingHours{
		EmployeeID: employeeID,
		Days:       make(map[time.Weekday]domain.DayHours),
		UpdatedAt:  time.Now(),
	}

	for weekday := time.Monday; weekday <= time.Saturday; weekday++ {
		if weekday == time.Saturday && !gofakeit.Bool() {
			continue
		}
		start, err := types.NewTimeStringFromMinutes(gofakeit.Number(8, 11) * 60)
		if err != nil {
			return nil, err
		}
		end, err := types.NewTimeStringFromMinutes(gofakeit.Number(17, 21) * 60)
		if err != nil {
			return nil, err
		}
		hours.Days[weekday] = domain.DayHours{Start: start, End: end}
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		return s.schedules.SetWorkingHours(ctx, hours)
	})
	if err != nil {
		return nil, err
	}
	return hours, nil
}

func (s *seeder) seedTimeOff(ctx context.Context, employeeID int64, today time.Time, days int) (map[string]bool, error) {
	daysOff := make(map[string]bool)
	if days <= 1 {
		return daysOff, nil
	}

	count := gofakeit.Number(0, 2)
	for i := 0; i < count; i++ {
		date := today.AddDate(0, 0, gofakeit.Number(1, days-1))
		timeOff := &domain.TimeOff{
			EmployeeID: employeeID,
			Date:       date,
			Reason:     gofakeit.RandomString(timeOffReason),
			CreatedAt:  time.Now(),
		}
		if err := s.schedules.AddTimeOff(ctx, timeOff); err != nil {
			return nil, err
		}
		daysOff[date.Format(domain.DateFormat)] = true
	}
	return daysOff, nil
}

// seedAppointments пересекающиеся попытки отбрасываются хранилищем
func (s *seeder) seedAppointments(
	ctx context.Context,
	hours *domain.WorkingHours,
	daysOff map[string]bool,
	today time.Time,
	days, perDay, clients int,
) (int, error) {
	created := 0
	for offset := 1; offset < days; offset++ {
		date := today.AddDate(0, 0, offset)
		if daysOff[date.Format(domain.DateFormat)] {
			continue
		}
		window, ok := hours.ForDay(date)
		if !ok {
			continue
		}
		open, _ := window.Start.Minutes()
		closeAt, _ := window.End.Minutes()

		for i := 0; i < perDay; i++ {
			duration := durations[gofakeit.Number(0, len(durations)-1)]
			lastStart := (closeAt - duration - open) / domain.DefaultSlotStepMinutes
			if lastStart < 0 {
				continue
			}
			startMinutes := open + gofakeit.Number(0, lastStart)*domain.DefaultSlotStepMinutes

			appointment := &domain.Appointment{
				EmployeeID:      hours.EmployeeID,
				ServiceID:       int64(gofakeit.Number(1, 10)),
				SalonID:         1,
				ClientID:        int64(gofakeit.Number(1, clients)),
				StartTime:       time.Date(date.Year(), date.Month(), date.Day(), 0, startMinutes, 0, 0, s.loc),
				DurationMinutes: duration,
				Status:          domain.StatusPending,
				CreatedAt:       time.Now(),
				UpdatedAt:       time.Now(),
			}

			_, err := s.appointments.InsertIfFree(ctx, appointment)
			switch {
			case err == nil:
				created++
			case errors.Is(err, appointmentRepo.ErrOverlap):
				s.log.Debug("Skip overlapping appointment for employee %d at %s", hours.EmployeeID, appointment.StartTime.Format(domain.DateTimeFormat))
			default:
				return created, err
			}
		}
	}
	return created, nil
}
