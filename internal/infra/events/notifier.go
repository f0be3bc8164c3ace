package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

const defaultPublishTimeout = 5 * time.Second

// Notifier отправляет события после фиксации изменений в фоне
// Ошибка доставки только логируется и никогда не откатывает операцию
// События одной записи публикуются строго в порядке вызова Notify
type Notifier struct {
	publisher Publisher
	logger    Logger
	timeout   time.Duration
	wg        sync.WaitGroup

	mu    sync.Mutex
	tails map[int64]chan struct{} // последняя незавершённая отправка по ID записи
}

// NewNotifier создает notifier поверх publisher
func NewNotifier(publisher Publisher, timeout time.Duration, logger Logger) *Notifier {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Notifier{
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
		tails:     make(map[int64]chan struct{}),
	}
}

// Notify формирует событие и отправляет его, не дожидаясь результата
func (n *Notifier) Notify(ctx context.Context, eventType domain.EventType, actor domain.Actor, appointment *domain.Appointment) {
	event := domain.AppointmentEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		OccurredAt:  time.Now(),
		Actor:       actor,
		Appointment: *appointment,
	}

	// Встаём в очередь за предыдущим событием этой записи
	n.mu.Lock()
	prev := n.tails[appointment.ID]
	done := make(chan struct{})
	n.tails[appointment.ID] = done
	n.mu.Unlock()

	// Отправка переживает отмену контекста запроса
	baseCtx := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer n.release(appointment.ID, done)

		if prev != nil {
			<-prev
		}

		sendCtx, cancel := context.WithTimeout(baseCtx, n.timeout)
		defer cancel()

		if err := n.publisher.Publish(sendCtx, event); err != nil {
			n.logger.Error("Notify: event=%s appointment=%d: %v", event.Type, event.Appointment.ID, err)
			return
		}
		n.logger.Info("Notify: event=%s id=%s appointment=%d sent", event.Type, event.ID, event.Appointment.ID)
	}()
}

// release пропускает следующее событие записи и убирает очередь, если она пуста
func (n *Notifier) release(appointmentID int64, done chan struct{}) {
	close(done)

	n.mu.Lock()
	if n.tails[appointmentID] == done {
		delete(n.tails, appointmentID)
	}
	n.mu.Unlock()
}

// Wait дожидается отправки всех событий (при остановке сервиса)
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// LogPublisher пишет события в лог, когда Kafka выключена
type LogPublisher struct {
	logger Logger
}

// NewLogPublisher создает publisher-заглушку
func NewLogPublisher(logger Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.AppointmentEvent) error {
	p.logger.Info("Event %s: appointment=%d status=%s", event.Type, event.Appointment.ID, event.Appointment.Status)
	return nil
}
