package events

import "errors"

var (
	// ErrPublish возвращается, если событие не удалось отправить
	ErrPublish = errors.New("events: failed to publish")
)
