package events

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Publisher доставляет событие во внешнюю систему уведомлений
type Publisher interface {
	Publish(ctx context.Context, event domain.AppointmentEvent) error
}

// MessageWriter подмножество *kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
