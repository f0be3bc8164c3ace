package schedules

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден в каталоге
	ErrEmployeeNotFound = errors.New("schedules: employee not found")

	// ErrForbidden возвращается, когда пользователь редактирует чужое расписание
	ErrForbidden = errors.New("schedules: forbidden")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedules: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedules: internal error")
)
