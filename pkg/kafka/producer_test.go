package kafka

import (
	"context"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/tavola/backoffice/pkg/logger"
)

func newMockProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	t.Helper()

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	mock := mocks.NewSyncProducer(t, config)

	return &Producer{producer: mock, logger: logger.Nop()}, mock
}

func TestSendEvent_PublishesPayload(t *testing.T) {
	p, mock := newMockProducer(t)

	payload := []byte(`{"event_type":"order_status_changed"}`)

	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != string(payload) {
			t.Errorf("published value = %s, want %s", val, payload)
		}
		return nil
	})

	err := p.SendEvent(context.Background(), "backoffice.orders", "ord-1", "order_status_changed", payload)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSendEvent_PropagatesBrokerError(t *testing.T) {
	p, mock := newMockProducer(t)

	mock.ExpectSendMessageAndFail(sarama.ErrBrokerNotAvailable)

	err := p.SendEvent(context.Background(), "backoffice.orders", "ord-1", "order_created", []byte("{}"))

	if err == nil {
		t.Fatal("expected broker error to propagate")
	}
}

func TestSendEvent_CancelledContext(t *testing.T) {
	p, _ := newMockProducer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.SendEvent(ctx, "backoffice.orders", "ord-1", "order_created", []byte("{}")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
