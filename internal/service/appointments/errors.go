package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден в каталоге
	ErrEmployeeNotFound = errors.New("appointments: employee not found")

	// ErrForbidden возвращается, когда у пользователя нет прав на операцию
	ErrForbidden = errors.New("appointments: forbidden")

	// ErrInvalidTransition возвращается при недопустимой смене статуса или проигранной гонке
	ErrInvalidTransition = errors.New("appointments: invalid status transition")

	// ErrPastSlot возвращается, когда клиент отменяет уже начавшуюся запись
	ErrPastSlot = errors.New("appointments: appointment already started")

	// ErrConflict возвращается при повторном отзыве
	ErrConflict = errors.New("appointments: review already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
