package messaging

import (
	"context"
	"errors"
	"testing"
)

func TestConnectorPublishWithoutConnection(t *testing.T) {
	c := NewConnector("amqp://localhost:1")

	err := c.Publish(context.Background(), "quote.created", map[string]string{"id": "q-1"})
	if !errors.Is(err, ErrChannelUnavailable) {
		t.Fatalf("expected ErrChannelUnavailable, got %v", err)
	}
}

func TestConnectorSubscribeBeforeConnect(t *testing.T) {
	c := NewConnector("amqp://localhost:1")

	handler := func(context.Context, []byte) error { return nil }
	if err := c.Subscribe("billing-work-order-created", "work-order.created", handler); err != nil {
		t.Fatalf("registration must not fail while disconnected: %v", err)
	}
	if err := c.Subscribe("billing-work-order-cancelled", "work-order.cancelled", handler); err != nil {
		t.Fatalf("registration must not fail while disconnected: %v", err)
	}

	queues := c.Subscriptions()
	if len(queues) != 2 {
		t.Fatalf("expected 2 registered queues, got %d", len(queues))
	}
	if queues[0] != "billing-work-order-created" || queues[1] != "billing-work-order-cancelled" {
		t.Fatalf("unexpected queues: %v", queues)
	}
}

func TestConnectorIsConnectedDefaultsFalse(t *testing.T) {
	c := NewConnector("amqp://localhost:1")
	if c.IsConnected() {
		t.Fatalf("expected disconnected state before Connect")
	}
}

func TestConnectorCloseIsIdempotent(t *testing.T) {
	c := NewConnector("amqp://localhost:1")
	c.Close()
	c.Close()
	if c.IsConnected() {
		t.Fatalf("expected disconnected state after Close")
	}
}
