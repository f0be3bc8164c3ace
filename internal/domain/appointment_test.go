package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	all := []AppointmentStatus{StatusPending, StatusCompleted, StatusCancelled}

	allowed := map[AppointmentStatus]map[AppointmentStatus]bool{
		StatusPending: {StatusCompleted: true, StatusCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestAppointment_EndTimeAndActivity(t *testing.T) {
	start := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	a := &Appointment{StartTime: start, DurationMinutes: 90, Status: StatusPending}

	assert.Equal(t, start.Add(90*time.Minute), a.EndTime())
	assert.True(t, a.IsActive())

	a.Status = StatusCompleted
	assert.True(t, a.IsActive())

	a.Status = StatusCancelled
	assert.False(t, a.IsActive())
}

func TestParseAppointmentStatus(t *testing.T) {
	status, ok := ParseAppointmentStatus("completed")
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, status)

	_, ok = ParseAppointmentStatus("confirmed")
	assert.False(t, ok)
}

func TestActor_CanManageEmployee(t *testing.T) {
	assert.True(t, Actor{UserID: 7, Role: RoleEmployee}.CanManageEmployee(7))
	assert.False(t, Actor{UserID: 7, Role: RoleEmployee}.CanManageEmployee(8))
	assert.True(t, Actor{UserID: 1, Role: RoleAdmin}.CanManageEmployee(8))
	assert.False(t, Actor{UserID: 7, Role: RoleClient}.CanManageEmployee(7))
}

func TestWorkingHours_Validate(t *testing.T) {
	valid := &WorkingHours{Days: map[time.Weekday]DayHours{time.Monday: {Start: "09:00", End: "18:00"}}}
	assert.NoError(t, valid.Validate())

	reversed := &WorkingHours{Days: map[time.Weekday]DayHours{time.Monday: {Start: "18:00", End: "09:00"}}}
	assert.ErrorIs(t, reversed.Validate(), ErrInvalidRange)

	badWeekday := &WorkingHours{Days: map[time.Weekday]DayHours{time.Weekday(7): {Start: "09:00", End: "18:00"}}}
	assert.ErrorIs(t, badWeekday.Validate(), ErrInvalidWeekday)
}
