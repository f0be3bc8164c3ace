package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

func newAppointment(employeeID int64, start time.Time, minutes int) *domain.Appointment {
	return &domain.Appointment{
		EmployeeID:      employeeID,
		ServiceID:       10,
		SalonID:         1,
		ClientID:        100,
		StartTime:       start,
		DurationMinutes: minutes,
		Status:          domain.StatusPending,
	}
}

func TestAppointmentStore_ConcurrentOverlappingInserts(t *testing.T) {
	store := NewAppointmentStore()
	start := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	const workers = 20
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		overlaps  atomic.Int32
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := newAppointment(1, start.Add(time.Duration(i%3)*15*time.Minute), 60)
			a.ClientID = int64(100 + i)

			_, err := store.InsertIfFree(context.Background(), a)
			switch {
			case err == nil:
				succeeded.Add(1)
			case assert.ErrorIs(t, err, appointment.ErrOverlap):
				overlaps.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), overlaps.Load())
}

func TestAppointmentStore_BackToBackAllowed(t *testing.T) {
	store := NewAppointmentStore()
	ctx := context.Background()
	start := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	_, err := store.InsertIfFree(ctx, newAppointment(1, start, 60))
	require.NoError(t, err)

	_, err = store.InsertIfFree(ctx, newAppointment(1, start.Add(time.Hour), 30))
	require.NoError(t, err)

	_, err = store.InsertIfFree(ctx, newAppointment(1, start.Add(-30*time.Minute), 30))
	require.NoError(t, err)

	// Другой сотрудник в то же время
	_, err = store.InsertIfFree(ctx, newAppointment(2, start, 60))
	require.NoError(t, err)

	list, err := store.ListByEmployeeAndDate(ctx, 1, start, true)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].StartTime.Before(list[1].StartTime))
	assert.True(t, list[1].StartTime.Before(list[2].StartTime))
}

func TestAppointmentStore_CancelledDoesNotBlock(t *testing.T) {
	store := NewAppointmentStore()
	ctx := context.Background()
	start := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	created, err := store.InsertIfFree(ctx, newAppointment(1, start, 60))
	require.NoError(t, err)

	_, err = store.UpdateStatus(ctx, created.ID, domain.StatusPending, domain.StatusCancelled, domain.StatusUpdate{
		CancelReason: ptr.Ptr("болезнь"),
		CancelledBy:  ptr.Ptr(domain.RoleEmployee),
		At:           start.Add(-time.Hour),
	})
	require.NoError(t, err)

	_, err = store.InsertIfFree(ctx, newAppointment(1, start, 60))
	require.NoError(t, err)

	active, err := store.ListByEmployeeAndDate(ctx, 1, start, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := store.ListByEmployeeAndDate(ctx, 1, start, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAppointmentStore_DuplicateRequest(t *testing.T) {
	store := NewAppointmentStore()
	ctx := context.Background()
	start := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	a := newAppointment(1, start, 60)
	a.RequestID = ptr.Ptr("key-1")
	created, err := store.InsertIfFree(ctx, a)
	require.NoError(t, err)

	again := newAppointment(1, start.Add(3*time.Hour), 60)
	again.RequestID = ptr.Ptr("key-1")
	_, err = store.InsertIfFree(ctx, again)
	require.ErrorIs(t, err, appointment.ErrDuplicateRequest)

	found, err := store.GetByRequestID(ctx, a.ClientID, "key-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	// Тот же ключ у другого клиента не конфликтует
	other := newAppointment(1, start.Add(3*time.Hour), 60)
	other.ClientID = 200
	other.RequestID = ptr.Ptr("key-1")
	_, err = store.InsertIfFree(ctx, other)
	require.NoError(t, err)
}

func TestAppointmentStore_CompareAndSwap(t *testing.T) {
	store := NewAppointmentStore()
	ctx := context.Background()
	start := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	created, err := store.InsertIfFree(ctx, newAppointment(1, start, 60))
	require.NoError(t, err)

	completed, err := store.UpdateStatus(ctx, created.ID, domain.StatusPending, domain.StatusCompleted, domain.StatusUpdate{
		CompletionNotes: ptr.Ptr("готово"),
		At:              start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	_, err = store.UpdateStatus(ctx, created.ID, domain.StatusPending, domain.StatusCancelled, domain.StatusUpdate{At: start})
	assert.ErrorIs(t, err, appointment.ErrStatusMismatch)

	reviewed, err := store.AttachReview(ctx, created.ID, domain.Review{Rating: 5, CreatedAt: start.Add(2 * time.Hour)})
	require.NoError(t, err)
	require.NotNil(t, reviewed.Review)
	assert.Equal(t, 5, reviewed.Review.Rating)

	_, err = store.AttachReview(ctx, created.ID, domain.Review{Rating: 1, CreatedAt: start.Add(3 * time.Hour)})
	assert.ErrorIs(t, err, appointment.ErrStatusMismatch)

	_, err = store.GetByID(ctx, 999)
	assert.ErrorIs(t, err, appointment.ErrAppointmentNotFound)
}

func TestAppointmentStore_ListByClient(t *testing.T) {
	store := NewAppointmentStore()
	ctx := context.Background()
	start := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	first, err := store.InsertIfFree(ctx, newAppointment(1, start, 60))
	require.NoError(t, err)
	_, err = store.InsertIfFree(ctx, newAppointment(1, start.AddDate(0, 0, 1), 60))
	require.NoError(t, err)

	_, err = store.UpdateStatus(ctx, first.ID, domain.StatusPending, domain.StatusCancelled, domain.StatusUpdate{At: start})
	require.NoError(t, err)

	all, err := store.ListByClient(ctx, 100, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].StartTime.After(all[1].StartTime))

	cancelled, err := store.ListByClient(ctx, 100, ptr.Ptr(domain.StatusCancelled))
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, first.ID, cancelled[0].ID)
}
