package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/pkg/logger"
)

// CustomerNotifier delivers order updates to the customer's messaging channel
type CustomerNotifier interface {
	NotifyStatusChange(ctx context.Context, phone, customerName string, newStatus models.OrderStatus) error
}

// WhatsAppNotifier is the outbound WhatsApp channel. The gateway integration
// lives behind this type; for now it records the delivery in the log.
type WhatsAppNotifier struct {
	logger logger.Logger
}

// NewWhatsAppNotifier creates a new WhatsAppNotifier
func NewWhatsAppNotifier(logger logger.Logger) *WhatsAppNotifier {
	return &WhatsAppNotifier{logger: logger}
}

// NotifyStatusChange sends the customer a status update message
func (n *WhatsAppNotifier) NotifyStatusChange(ctx context.Context, phone, customerName string, newStatus models.OrderStatus) error {
	n.logger.Info("WhatsApp notification sent",
		"phone", phone,
		"customer", customerName,
		"status", newStatus)
	return nil
}

// OrderEventHandler consumes order events from Kafka and triggers customer
// notifications for status transitions.
type OrderEventHandler struct {
	notifier CustomerNotifier
	logger   logger.Logger
}

// NewOrderEventHandler creates a new OrderEventHandler
func NewOrderEventHandler(notifier CustomerNotifier, logger logger.Logger) *OrderEventHandler {
	return &OrderEventHandler{
		notifier: notifier,
		logger:   logger,
	}
}

type statusChangedPayload struct {
	OrderID       string `json:"order_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
}

// HandleMessage decodes the event envelope and dispatches by event type
func (h *OrderEventHandler) HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event models.OutboxMessageEvent

	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	switch event.EventType {
	case models.EventOrderStatusChanged:
		return h.handleStatusChanged(ctx, &event)
	case models.EventOrderCreated, models.EventOrderDeleted, models.EventMessageSent:
		h.logger.Debug("Order event consumed",
			"eventType", event.EventType,
			"aggregateID", event.AggregateID)
		return nil
	default:
		h.logger.Warn("Unknown event type", "eventType", event.EventType)
		return nil
	}
}

func (h *OrderEventHandler) handleStatusChanged(ctx context.Context, event *models.OutboxMessageEvent) error {
	data, err := json.Marshal(event.Data)

	if err != nil {
		return fmt.Errorf("failed to re-marshal event data: %w", err)
	}

	var payload statusChangedPayload

	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal status change payload: %w", err)
	}

	status, err := models.ParseOrderStatus(payload.NewStatus)

	if err != nil {
		h.logger.Warn("Status change event with unknown status",
			"orderID", payload.OrderID,
			"status", payload.NewStatus)
		return nil
	}

	if err := h.notifier.NotifyStatusChange(ctx, payload.CustomerPhone, payload.CustomerName, status); err != nil {
		return fmt.Errorf("failed to notify customer: %w", err)
	}

	h.logger.Info("Customer notified of status change",
		"orderID", payload.OrderID,
		"oldStatus", payload.OldStatus,
		"newStatus", payload.NewStatus)

	return nil
}
