package domain

// Default configuration values
const (
	DefaultSlotStepMinutes         = 30
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MinSlotStepMinutes      = 5
	MaxSlotStepMinutes      = 240
	MaxDurationMinutes      = 24 * 60
	MaxAdvanceBookingDays   = 365 // 1 year
	MaxBookingNoticeMinutes = 10080
	MaxNotesLength          = 500
	MaxReasonLength         = 500
	MaxReviewCommentLength  = 1000
	MinRating               = 1
	MaxRating               = 5
	MaxTimeOffRangeDays     = 366
)

// Time format constants
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04" // Локальное время салона без смещения
)

// ActiveStatuses статусы, занимающие время сотрудника
// Используется для фильтрации при расчёте доступных слотов и в ограничении исключения БД
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusCompleted,
}
