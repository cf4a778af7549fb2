package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/carlosmendieta/modique-backend/pkg/enums"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
	"github.com/carlosmendieta/modique-backend/pkg/metrics"
	"github.com/carlosmendieta/modique-backend/pkg/outbox"
	"github.com/carlosmendieta/modique-backend/pkg/outbox/idempotency"
)

const orderEventsConsumer = "order-events"

// Consumer watches order lifecycle events and records them as audit log lines
// and Prometheus counters.
type Consumer struct {
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	metrics      *metrics.OrderEventsMetrics
	logg         *logger.Logger
}

// NewConsumer builds an order events consumer.
func NewConsumer(subscription *pubsub.Subscriber, manager *idempotency.Manager, eventMetrics *metrics.OrderEventsMetrics, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, fmt.Errorf("orders subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: subscription,
		idempotency:  manager,
		metrics:      eventMetrics,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	if !isOrderEvent(eventType) {
		c.logg.Info(logCtx, "skipping non-order event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderEventsConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.metrics.IncDuplicate(eventType)
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	var data outbox.OrderEventData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		c.metrics.IncFailed(eventType)
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, orderEventsConsumer, eventID)
		return processResult{nack: true}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"order_number": data.OrderNumber,
		"user_id":      data.UserID,
		"status":       data.Status,
	})

	if err := c.handleEvent(logCtx, enums.OutboxEventType(eventType), data); err != nil {
		c.metrics.IncFailed(eventType)
		c.logg.Error(logCtx, "event handling failed", err)
		_ = c.idempotency.Delete(ctx, orderEventsConsumer, eventID)
		return processResult{nack: true}
	}

	c.metrics.IncProcessed(eventType)
	return processResult{ack: true}
}

func (c *Consumer) handleEvent(logCtx context.Context, eventType enums.OutboxEventType, data outbox.OrderEventData) error {
	if data.OrderNumber == "" {
		return fmt.Errorf("order number missing")
	}
	switch eventType {
	case enums.EventOrderCreated:
		logCtx = c.logg.WithFields(logCtx, map[string]any{"total_cents": data.TotalCents})
		c.logg.Info(logCtx, "order created")
	case enums.EventOrderPaid:
		logCtx = c.logg.WithFields(logCtx, map[string]any{
			"payment_status": data.PaymentStatus,
			"payment_method": data.PaymentMethod,
		})
		c.logg.Info(logCtx, "order paid")
	case enums.EventOrderStatusChanged:
		c.logg.Info(logCtx, "order status changed")
	}
	return nil
}

func isOrderEvent(eventType string) bool {
	switch enums.OutboxEventType(eventType) {
	case enums.EventOrderCreated, enums.EventOrderPaid, enums.EventOrderStatusChanged:
		return true
	}
	return false
}
