package domain

import "errors"

var (
	// ErrInvalidRange возвращается, когда начало рабочего окна не раньше конца
	ErrInvalidRange = errors.New("domain: working hours start must be before end")

	// ErrInvalidWeekday возвращается для дня недели вне диапазона 0-6
	ErrInvalidWeekday = errors.New("domain: weekday must be between 0 and 6")
)
