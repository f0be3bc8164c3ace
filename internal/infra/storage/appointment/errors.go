package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrOverlap возвращается, когда у сотрудника уже есть активная запись на пересекающееся время
	ErrOverlap = errors.New("appointment.repository: overlapping active appointment")

	// ErrDuplicateRequest возвращается, когда запись с таким (client_id, request_id) уже существует
	ErrDuplicateRequest = errors.New("appointment.repository: duplicate request id")

	// ErrStatusMismatch возвращается, когда текущий статус записи не совпал с ожидаемым
	ErrStatusMismatch = errors.New("appointment.repository: status mismatch")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
