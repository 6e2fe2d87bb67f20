package interfaces

import "context"

// EventHandler processes a single delivered message body. A nil return
// acknowledges the message; an error routes it to the dead-letter queue
// (nack without requeue).
type EventHandler func(ctx context.Context, body []byte) error

// IEventPublisher publishes domain events to the garage-events topic exchange.
//
// Publish fails with messaging.ErrChannelUnavailable when the broker connection is
// down; callers decide whether to drop or re-attempt.
type IEventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// IEventSubscriber registers a durable queue bound to a routing key. The
// subscription survives reconnects: the connector re-declares and re-consumes
// every registered queue after re-establishing the connection.
type IEventSubscriber interface {
	Subscribe(queue, routingKey string, handler EventHandler) error
}
