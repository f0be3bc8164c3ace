package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

const headerEventType = "event-type"

// KafkaPublisher публикует события в Kafka
// Ключ сообщения - ID записи, поэтому события одной записи попадают в одну партицию по порядку
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter создает writer с hash-балансировкой по ключу
func NewKafkaWriter(brokers []string, topic string, writeTimeout time.Duration) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher создает publisher поверх writer
func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish отправляет одно событие
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.AppointmentEvent) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s id=%s: %v", ErrPublish, event.Type, event.ID, err)
	}
	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func buildMessage(event domain.AppointmentEvent) (kafka.Message, error) {
	payload, err := json.Marshal(FromDomain(event))
	if err != nil {
		return kafka.Message{}, fmt.Errorf("%w: marshal %s: %v", ErrPublish, event.Type, err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.Appointment.ID, 10)),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(event.Type)},
		},
	}, nil
}
