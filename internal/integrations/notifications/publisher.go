package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// Publisher публикует события о записях в Kafka.
// Ошибки публикации не должны ломать запись: методы логируют их и возвращают nil-safe результат.
type Publisher struct {
	writer  Writer
	topics  Topics
	timeout time.Duration
	log     Logger
	metrics Metrics
	now     func() time.Time
}

// NewPublisher создает публикатор. writer == nil выключает публикацию.
func NewPublisher(writer Writer, topics Topics, timeout time.Duration, log Logger, metrics Metrics) *Publisher {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Publisher{
		writer:  writer,
		topics:  topics,
		timeout: timeout,
		log:     log,
		metrics: metrics,
		now:     time.Now,
	}
}

// NewKafkaWriter создает writer с балансировкой по ключу (id заведения),
// чтобы события одного заведения шли в одну партицию по порядку
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// AppointmentCreated сообщает о новой записи
func (p *Publisher) AppointmentCreated(ctx context.Context, appt *domain.Appointment) {
	p.publish(ctx, p.topics.Created, EventAppointmentCreated, appt, "")
}

// AppointmentStatusChanged сообщает о смене статуса записи
func (p *Publisher) AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment, previous domain.AppointmentStatus) {
	p.publish(ctx, p.topics.StatusChanged, EventAppointmentStatusChanged, appt, previous)
}

// Close закрывает writer
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, topic, eventType string, appt *domain.Appointment, previous domain.AppointmentStatus) {
	if p == nil || p.writer == nil {
		return
	}

	if err := p.send(ctx, topic, eventType, appt, previous); err != nil {
		p.log.Warn("Failed to publish %s for appointment_id=%d: %v", eventType, appt.ID, err)
		if p.metrics != nil {
			p.metrics.IncNotificationError(eventType)
		}
	}
}

func (p *Publisher) send(ctx context.Context, topic, eventType string, appt *domain.Appointment, previous domain.AppointmentStatus) error {
	event := AppointmentEvent{
		EventID:         uuid.NewString(),
		EventType:       eventType,
		OccurredAt:      p.now().UTC(),
		AppointmentID:   appt.ID,
		EstablishmentID: appt.EstablishmentID,
		CustomerID:      appt.CustomerID,
		ServiceID:       appt.ServiceID,
		Date:            appt.Date.Format(domain.DateFormat),
		StartTime:       appt.StartTime.String(),
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		PreviousStatus:  string(previous),
		TotalPrice:      appt.TotalPrice,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatInt(appt.EstablishmentID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)

	// Запрос клиента может завершиться раньше брокера, поэтому отменяем только по таймауту
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(sendCtx, msg); err != nil {
		return fmt.Errorf("%w: topic %s: %v", ErrPublish, topic, err)
	}

	p.log.Info("Published %s for appointment_id=%d", eventType, appt.ID)
	return nil
}

// headerCarrier адаптирует заголовки Kafka к TextMapCarrier
type headerCarrier struct {
	headers *[]kafka.Header
}

func (c headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c headerCarrier) Set(key, value string) {
	for i := range *c.headers {
		if (*c.headers)[i].Key == key {
			(*c.headers)[i].Value = []byte(value)
			return
		}
	}
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

var _ propagation.TextMapCarrier = headerCarrier{}

func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{headers: &headers})
	return headers
}
