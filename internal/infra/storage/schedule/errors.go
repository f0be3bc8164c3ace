package schedule

import "errors"

var (
	// ErrWorkingHoursNotConfigured возвращается, когда сотрудник ни разу не задавал рабочие часы
	ErrWorkingHoursNotConfigured = errors.New("schedule.repository: working hours not configured")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
