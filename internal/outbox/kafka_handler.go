package outbox

import (
	"context"
	"fmt"

	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/pkg/kafka"
	"github.com/tavola/backoffice/pkg/logger"
)

// KafkaMessageHandler publishes outbox messages to a Kafka topic
type KafkaMessageHandler struct {
	producer *kafka.Producer
	topic    string
	logger   logger.Logger
}

// NewKafkaMessageHandler creates a handler bound to a single topic
func NewKafkaMessageHandler(producer *kafka.Producer, topic string, logger logger.Logger) *KafkaMessageHandler {
	return &KafkaMessageHandler{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// HandleMessage publishes the outbox message as a keyed event
func (h *KafkaMessageHandler) HandleMessage(ctx context.Context, message *models.OutboxMessage) error {
	err := h.producer.SendEvent(ctx, h.topic, message.AggregateID, message.EventType, message.Payload)

	if err != nil {
		return fmt.Errorf("failed to publish message to kafka: %w", err)
	}

	h.logger.Debug("Published outbox message to kafka",
		"topic", h.topic,
		"messageID", message.ID,
		"aggregateID", message.AggregateID,
		"eventType", message.EventType)

	return nil
}
