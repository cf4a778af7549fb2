package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carlosmendieta/modique-backend/pkg/enums"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
	"github.com/carlosmendieta/modique-backend/pkg/metrics"
	"github.com/carlosmendieta/modique-backend/pkg/outbox"
	"github.com/carlosmendieta/modique-backend/pkg/outbox/idempotency"
)

type fakeStore struct {
	setNXResult bool
	setNXError  error
	marked      []string
	deleted     []string
}

func (f *fakeStore) Get(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if f.setNXError != nil {
		return false, f.setNXError
	}
	f.marked = append(f.marked, key)
	return f.setNXResult, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "mdq:idempotency:" + scope + ":" + id
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}

func testConsumer(t *testing.T, store *fakeStore) *Consumer {
	t.Helper()
	manager, err := idempotency.NewManager(store, time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &Consumer{
		idempotency: manager,
		metrics:     metrics.NewOrderEventsMetrics(nil),
		logg:        logger.New(logger.Options{ServiceName: "orders-worker-test", Level: zerolog.Disabled}),
	}
}

func orderMessage(t *testing.T, eventType enums.OutboxEventType, data outbox.OrderEventData) *pubsub.Message {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       payload,
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return &pubsub.Message{
		ID:         "msg-1",
		Data:       raw,
		Attributes: map[string]string{"event_type": string(eventType)},
	}
}

func TestProcessAcksOrderCreated(t *testing.T) {
	store := &fakeStore{setNXResult: true}
	c := testConsumer(t, store)

	msg := orderMessage(t, enums.EventOrderCreated, outbox.OrderEventData{
		OrderNumber: "Order_01",
		UserID:      uuid.NewString(),
		Status:      "pending",
		TotalCents:  12500,
	})
	result := c.process(context.Background(), msg)
	if !result.ack || result.nack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(store.marked) != 1 {
		t.Fatalf("expected one processed mark, got %d", len(store.marked))
	}
}

func TestProcessSkipsUnknownEventType(t *testing.T) {
	store := &fakeStore{setNXResult: true}
	c := testConsumer(t, store)

	msg := &pubsub.Message{
		ID:         "msg-2",
		Attributes: map[string]string{"event_type": "user_registered"},
	}
	result := c.process(context.Background(), msg)
	if !result.ack {
		t.Fatalf("expected ack for unknown event type")
	}
	if len(store.marked) != 0 {
		t.Fatalf("unknown events must not touch the idempotency store")
	}
}

func TestProcessAcksDuplicate(t *testing.T) {
	store := &fakeStore{setNXResult: false}
	c := testConsumer(t, store)

	msg := orderMessage(t, enums.EventOrderPaid, outbox.OrderEventData{
		OrderNumber:   "Order_02",
		Status:        "pending",
		PaymentStatus: "completed",
		PaymentMethod: "card",
	})
	result := c.process(context.Background(), msg)
	if !result.ack || result.nack {
		t.Fatalf("expected duplicate to be acked, got %+v", result)
	}
}

func TestProcessNacksOnIdempotencyFailure(t *testing.T) {
	store := &fakeStore{setNXError: errors.New("redis down")}
	c := testConsumer(t, store)

	msg := orderMessage(t, enums.EventOrderStatusChanged, outbox.OrderEventData{
		OrderNumber: "Order_03",
		Status:      "shipped",
	})
	result := c.process(context.Background(), msg)
	if !result.nack {
		t.Fatalf("expected nack when the idempotency store fails")
	}
}

func TestProcessNacksAndUnmarksOnBadPayload(t *testing.T) {
	store := &fakeStore{setNXResult: true}
	c := testConsumer(t, store)

	msg := orderMessage(t, enums.EventOrderCreated, outbox.OrderEventData{
		UserID: uuid.NewString(),
		Status: "pending",
	})
	result := c.process(context.Background(), msg)
	if !result.nack {
		t.Fatalf("expected nack for payload without an order number")
	}
	if len(store.deleted) != 1 {
		t.Fatalf("expected the processed mark to be removed, got %d deletes", len(store.deleted))
	}
}

func TestProcessAcksMalformedEnvelope(t *testing.T) {
	store := &fakeStore{setNXResult: true}
	c := testConsumer(t, store)

	msg := &pubsub.Message{
		ID:         "msg-3",
		Data:       []byte("{not json"),
		Attributes: map[string]string{"event_type": string(enums.EventOrderCreated)},
	}
	result := c.process(context.Background(), msg)
	if !result.ack {
		t.Fatalf("expected malformed envelopes to be acked and dropped")
	}
	if len(store.marked) != 0 {
		t.Fatalf("malformed envelopes must not be marked processed")
	}
}
