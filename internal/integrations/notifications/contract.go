package notifications

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Writer подмножество *kafka.Writer
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Metrics учёт неотправленных событий
type Metrics interface {
	IncNotificationError(eventType string)
}
