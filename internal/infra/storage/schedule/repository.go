package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/psqlbuilder"
)

// Repository репозиторий расписаний сотрудников
//
// employee_schedules - признак того, что шаблон настроен (пустой шаблон тоже настроен),
// working_hours - окна по дням недели, time_off - отгулы по датам
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	return &Repository{db: db, loc: loc}
}

// GetWorkingHours получает недельный шаблон сотрудника
func (r *Repository) GetWorkingHours(ctx context.Context, employeeID int64) (*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("updated_at").
		From("employee_schedules").
		Where(squirrel.Eq{"employee_id": employeeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - build schedule query: %v", ErrBuildQuery, err)
	}

	hours := &domain.WorkingHours{
		EmployeeID: employeeID,
		Days:       make(map[time.Weekday]domain.DayHours),
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&hours.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkingHoursNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - scan schedule: %v", ErrScanRow, err)
	}

	query, args, err = psqlbuilder.Select("weekday", "start_time", "end_time").
		From("working_hours").
		Where(squirrel.Eq{"employee_id": employeeID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - build hours query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			weekday int
			day     domain.DayHours
		)
		if err := rows.Scan(&weekday, &day.Start, &day.End); err != nil {
			return nil, fmt.Errorf("%w: GetWorkingHours - scan row: %v", ErrScanRow, err)
		}
		hours.Days[time.Weekday(weekday)] = day
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// SetWorkingHours полностью перезаписывает шаблон
// Должен вызываться внутри транзакции (TransactionManager.Do), иначе чтение может увидеть пустой шаблон
func (r *Repository) SetWorkingHours(ctx context.Context, hours *domain.WorkingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// 1. Отмечаем шаблон как настроенный
	query, args, err := psqlbuilder.Insert("employee_schedules").
		Columns("employee_id", "updated_at").
		Values(hours.EmployeeID, hours.UpdatedAt).
		Suffix("ON CONFLICT (employee_id) DO UPDATE SET updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetWorkingHours - build upsert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetWorkingHours - upsert schedule: %v", ErrExecQuery, err)
	}

	// 2. Удаляем старые окна
	query, args, err = psqlbuilder.Delete("working_hours").
		Where(squirrel.Eq{"employee_id": hours.EmployeeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetWorkingHours - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetWorkingHours - delete hours: %v", ErrExecQuery, err)
	}

	if len(hours.Days) == 0 {
		return nil
	}

	// 3. Вставляем новые окна одной командой
	insert := psqlbuilder.Insert("working_hours").
		Columns("employee_id", "weekday", "start_time", "end_time")
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		day, ok := hours.Days[weekday]
		if !ok {
			continue
		}
		insert = insert.Values(hours.EmployeeID, int(weekday), day.Start, day.End)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetWorkingHours - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetWorkingHours - insert hours: %v", ErrExecQuery, err)
	}

	return nil
}

// AddTimeOff добавляет отгул
// Повторное добавление той же даты ничего не меняет
func (r *Repository) AddTimeOff(ctx context.Context, timeOff *domain.TimeOff) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_off").
		Columns("employee_id", "off_date", "reason", "created_at").
		Values(timeOff.EmployeeID, timeOff.Date.Format(domain.DateFormat), timeOff.Reason, timeOff.CreatedAt).
		Suffix("ON CONFLICT (employee_id, off_date) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddTimeOff - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddTimeOff - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetTimeOff получает отгулы сотрудника за период [from, to] по возрастанию даты
func (r *Repository) GetTimeOff(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("employee_id", "off_date", "reason", "created_at").
		From("time_off").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.GtOrEq{"off_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"off_date": to.Format(domain.DateFormat)}).
		OrderBy("off_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTimeOff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetTimeOff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.TimeOff, 0)
	for rows.Next() {
		var (
			t       domain.TimeOff
			offDate time.Time
		)
		if err := rows.Scan(&t.EmployeeID, &offDate, &t.Reason, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetTimeOff - scan row: %v", ErrScanRow, err)
		}
		t.Date = r.dateInSalon(offDate)
		result = append(result, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetTimeOff - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// IsDayOff проверяет наличие отгула на дату
func (r *Repository) IsDayOff(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("time_off").
		Where(squirrel.Eq{"employee_id": employeeID, "off_date": date.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsDayOff - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsDayOff - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// dateInSalon DATE приходит из lib/pq полночью UTC, переносим в локацию салона
func (r *Repository) dateInSalon(d time.Time) time.Time {
	if r.loc == nil {
		return d
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, r.loc)
}
