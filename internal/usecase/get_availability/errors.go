package get_availability

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден или неактивен
	ErrEmployeeNotFound = errors.New("get_availability: employee not found")

	// ErrInvalidService возвращается, когда услуга не найдена или не оказывается сотрудником
	ErrInvalidService = errors.New("get_availability: invalid service")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
