package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/psqlbuilder"
)

const (
	table = "appointments"

	// Коды ошибок PostgreSQL
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"

	constraintClientRequest = "appointments_client_request_key"
)

var columns = []string{
	"id",
	"employee_id",
	"service_id",
	"salon_id",
	"client_id",
	"request_id",
	"start_time",
	"duration_minutes",
	"status",
	"notes",
	"completion_notes",
	"completed_at",
	"cancel_reason",
	"cancelled_by",
	"cancelled_at",
	"review_rating",
	"review_comment",
	"reviewed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей в PostgreSQL
// start_time хранится как TIMESTAMP без зоны: локальное время салона
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	return &Repository{db: db, loc: loc}
}

// InsertIfFree атомарно создаёт запись
// Пересечение с активной записью сотрудника отсекается ограничением исключения appointments_no_overlap,
// повтор (client_id, request_id) - уникальным ключом
func (r *Repository) InsertIfFree(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"employee_id",
			"service_id",
			"salon_id",
			"client_id",
			"request_id",
			"start_time",
			"duration_minutes",
			"status",
			"notes",
		).
		Values(
			a.EmployeeID,
			a.ServiceID,
			a.SalonID,
			a.ClientID,
			a.RequestID,
			wallClock(a.StartTime),
			a.DurationMinutes,
			a.Status,
			a.Notes,
		).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: InsertIfFree - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := r.scan(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if mapped := translateInsertError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: InsertIfFree - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := r.scan(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// GetByRequestID получает запись по клиентскому ключу идемпотентности
func (r *Repository) GetByRequestID(ctx context.Context, clientID int64, requestID string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"client_id": clientID, "request_id": requestID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRequestID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := r.scan(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRequestID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListByEmployeeAndDate получает записи сотрудника на дату, отсортированные по времени начала
// activeOnly оставляет только pending и completed
func (r *Repository) ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := wallClock(domain.DateOf(date))
	dayEnd := dayStart.AddDate(0, 0, 1)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.GtOrEq{"start_time": dayStart}).
		Where(squirrel.Lt{"start_time": dayEnd}).
		OrderBy("start_time ASC")

	if activeOnly {
		builder = builder.Where(squirrel.Eq{"status": activeStatuses()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEmployeeAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEmployeeAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ListByClient получает записи клиента, новые сверху
// Опционально фильтрует по статусу
func (r *Repository) ListByClient(ctx context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("start_time DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// UpdateStatus переводит запись из expected в target одним условным UPDATE
// Если статус уже изменился (гонка или повтор), возвращает ErrStatusMismatch
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id int64,
	expected, target domain.AppointmentStatus,
	update domain.StatusUpdate,
) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update(table).
		Set("status", target).
		Set("updated_at", update.At)

	switch target {
	case domain.StatusCompleted:
		builder = builder.
			Set("completion_notes", update.CompletionNotes).
			Set("completed_at", update.At)
	case domain.StatusCancelled:
		var cancelledBy *string
		if update.CancelledBy != nil {
			role := string(*update.CancelledBy)
			cancelledBy = &role
		}
		builder = builder.
			Set("cancel_reason", update.CancelReason).
			Set("cancelled_by", cancelledBy).
			Set("cancelled_at", update.At)
	}

	query, args, err := builder.
		Where(squirrel.Eq{"id": id, "status": expected}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	a, err := r.scan(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusMismatch
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return a, nil
}

// AttachReview прикрепляет отзыв к завершённой записи без отзыва
// Повторный отзыв и отзыв на незавершённую запись дают ErrStatusMismatch
func (r *Repository) AttachReview(ctx context.Context, id int64, review domain.Review) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("review_rating", review.Rating).
		Set("review_comment", review.Comment).
		Set("reviewed_at", review.CreatedAt).
		Set("updated_at", review.CreatedAt).
		Where(squirrel.Eq{"id": id, "status": domain.StatusCompleted, "review_rating": nil}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AttachReview - build update query: %v", ErrBuildQuery, err)
	}

	a, err := r.scan(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusMismatch
	}
	if err != nil {
		return nil, fmt.Errorf("%w: AttachReview - execute update: %v", ErrExecQuery, err)
	}

	return a, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scan читает одну строку в доменную модель
func (r *Repository) scan(row rowScanner) (*domain.Appointment, error) {
	var (
		a             domain.Appointment
		requestID     sql.NullString
		cancelledBy   sql.NullString
		completedAt   sql.NullTime
		cancelledAt   sql.NullTime
		reviewRating  sql.NullInt64
		reviewComment sql.NullString
		reviewedAt    sql.NullTime
		createdAt     sql.NullTime
		updatedAt     sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.ServiceID,
		&a.SalonID,
		&a.ClientID,
		&requestID,
		&a.StartTime,
		&a.DurationMinutes,
		&a.Status,
		&a.Notes,
		&a.CompletionNotes,
		&completedAt,
		&a.CancelReason,
		&cancelledBy,
		&cancelledAt,
		&reviewRating,
		&reviewComment,
		&reviewedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime = r.inSalon(a.StartTime)

	if requestID.Valid {
		a.RequestID = &requestID.String
	}
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	if cancelledBy.Valid {
		role := domain.Role(cancelledBy.String)
		a.CancelledBy = &role
	}
	if cancelledAt.Valid {
		a.CancelledAt = &cancelledAt.Time
	}
	if reviewRating.Valid {
		a.Review = &domain.Review{
			Rating:    int(reviewRating.Int64),
			CreatedAt: reviewedAt.Time,
		}
		if reviewComment.Valid {
			a.Review.Comment = &reviewComment.String
		}
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAll сканирует результаты запроса в слайс записей
func (r *Repository) scanAll(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAll - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAll - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// inSalon переносит время из TIMESTAMP колонки (lib/pq отдаёт его в UTC) в локацию салона без сдвига
func (r *Repository) inSalon(t time.Time) time.Time {
	if r.loc == nil {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), r.loc)
}

// wallClock отбрасывает смещение: в TIMESTAMP колонку пишется локальное время салона как есть
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func activeStatuses() []string {
	statuses := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}

// translateInsertError переводит нарушения ограничений PostgreSQL в ошибки репозитория
func translateInsertError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch string(pqErr.Code) {
	case pgExclusionViolation:
		return fmt.Errorf("%w: %s", ErrOverlap, pqErr.Constraint)
	case pgUniqueViolation:
		if pqErr.Constraint == constraintClientRequest {
			return ErrDuplicateRequest
		}
	}
	return nil
}
