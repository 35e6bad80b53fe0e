package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
	"lbc-crawler-service/pkg/rabbitmq/rabbitmq_producer"
)

// RecordsQueueSinkAdapter implements RecordSinkPort over RabbitMQ. Each
// flushed batch is published as one persistent JSON message.
type RecordsQueueSinkAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

func NewRecordsQueueSinkAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*RecordsQueueSinkAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq sink: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq sink: routingKey cannot be empty")
	}

	return &RecordsQueueSinkAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// Push publishes the batch as a single message.
func (a *RecordsQueueSinkAdapter) Push(ctx context.Context, records []domain.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}

	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "RecordsQueueSinkAdapter",
		"routing_key": a.routingKey,
	})

	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("rabbitmq sink: failed to marshal record batch: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	// propagate the trace id into message headers
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish record batch", err, port.Fields{"records": len(records)})
		return fmt.Errorf("rabbitmq sink: failed to publish batch of %d records: %w", len(records), err)
	}

	adapterLogger.Debug("Published record batch", port.Fields{"records": len(records)})
	return nil
}
