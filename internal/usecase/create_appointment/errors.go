package create_appointment

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден или неактивен
	ErrEmployeeNotFound = errors.New("create_appointment: employee not found")

	// ErrInvalidService возвращается, когда услуга не найдена, не оказывается сотрудником или относится к другому салону
	ErrInvalidService = errors.New("create_appointment: invalid service")

	// ErrPastSlot возвращается, когда время начала уже прошло
	ErrPastSlot = errors.New("create_appointment: start time is in the past")

	// ErrSlotNoLongerAvailable возвращается, когда время занято, вне рабочего окна или на дату есть отгул
	ErrSlotNoLongerAvailable = errors.New("create_appointment: slot is no longer available")

	// ErrForbidden возвращается, когда клиент пытается записать другого клиента
	ErrForbidden = errors.New("create_appointment: forbidden")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
