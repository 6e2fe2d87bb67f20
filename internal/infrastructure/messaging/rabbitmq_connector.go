package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"garage_billing/internal/usecase/interfaces"
	"garage_billing/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var ErrChannelUnavailable = errors.New("rabbitmq channel not available")

const (
	exchangeName = "garage-events"

	// Nacked messages are parked here instead of being dropped.
	deadLetterExchange = "garage-events.dlx"
	deadLetterQueue    = "billing-dead-letter"

	reconnectDelay = 5 * time.Second
)

type subscription struct {
	queue      string
	routingKey string
	handler    interfaces.EventHandler
}

// Connector owns the one logical connection to RabbitMQ shared by all publish and
// subscribe operations.
//
// Lifecycle: Connect dials and, on any failure, schedules another attempt after a
// fixed delay, forever; it never surfaces an error to callers. Connection status is
// observable via IsConnected only. On a connection close the connector reconnects
// and re-establishes every subscription registered so far; connection and channel
// are recreated wholesale, never partially reused.
type Connector struct {
	url    string
	logger *zap.Logger

	mu        sync.RWMutex
	conn      *amqp.Connection
	ch        *amqp.Channel
	connected bool
	closed    bool
	subs      []subscription
}

var _ interfaces.IEventPublisher = (*Connector)(nil)
var _ interfaces.IEventSubscriber = (*Connector)(nil)

func NewConnector(url string) *Connector {
	if url == "" {
		url = getenvDefault("RABBITMQ_URL", "amqp://localhost:5672")
	}
	return &Connector{url: url, logger: util.GetLogger()}
}

// Connect establishes the connection and channel. Safe to call again after a
// connection loss; subscriptions registered before the loss are re-established.
func (c *Connector) Connect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	conn, err := amqp.Dial(c.url)
	if err != nil {
		c.logger.Error("failed to connect to RabbitMQ", zap.Error(err))
		c.scheduleReconnect()
		return
	}

	ch, err := conn.Channel()
	if err != nil {
		c.logger.Error("failed to open RabbitMQ channel", zap.Error(err))
		_ = conn.Close()
		c.scheduleReconnect()
		return
	}

	// One in-flight message per queue keeps per-queue delivery strictly ordered.
	if err := ch.Qos(1, 0, false); err != nil {
		c.logger.Error("failed to set channel QoS", zap.Error(err))
		_ = conn.Close()
		c.scheduleReconnect()
		return
	}

	c.mu.Lock()
	c.conn = conn
	c.ch = ch
	c.connected = true
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	c.logger.Info("billing service connected to RabbitMQ")

	go c.watchConnection(conn)

	for _, s := range subs {
		if err := c.consume(s); err != nil {
			c.logger.Error("failed to re-establish subscription",
				zap.String("queue", s.queue),
				zap.Error(err))
		}
	}
}

func (c *Connector) watchConnection(conn *amqp.Connection) {
	closeCh := conn.NotifyClose(make(chan *amqp.Error, 1))
	amqpErr := <-closeCh

	c.mu.Lock()
	c.connected = false
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return
	}

	if amqpErr != nil {
		c.logger.Warn("RabbitMQ connection closed, reconnecting",
			zap.String("reason", amqpErr.Error()))
	} else {
		c.logger.Warn("RabbitMQ connection closed, reconnecting")
	}
	c.scheduleReconnect()
}

func (c *Connector) scheduleReconnect() {
	c.mu.Lock()
	c.connected = false
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	util.BrokerReconnectsTotal.Inc()
	time.AfterFunc(reconnectDelay, c.Connect)
}

// IsConnected is the non-blocking connection status used by health reporting.
func (c *Connector) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close tears the connection down for good; no further reconnects are scheduled.
func (c *Connector) Close() {
	c.mu.Lock()
	c.closed = true
	c.connected = false
	conn := c.conn
	c.conn = nil
	c.ch = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// Publish serializes the payload and sends it to the garage-events topic exchange.
// It fails with ErrChannelUnavailable when the broker is down; the caller decides
// whether to drop or re-attempt.
func (c *Connector) Publish(ctx context.Context, routingKey string, payload any) error {
	c.mu.RLock()
	ch := c.ch
	ok := c.connected
	c.mu.RUnlock()

	if !ok || ch == nil {
		return ErrChannelUnavailable
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return err
	}

	util.EventsPublishedTotal.WithLabelValues(routingKey).Inc()
	return nil
}

// Subscribe registers a durable queue bound to the routing key. The registration
// is remembered so it survives reconnects. Handler success acks the message;
// handler failure nacks without requeue, which routes it to the dead-letter queue.
func (c *Connector) Subscribe(queue, routingKey string, handler interfaces.EventHandler) error {
	s := subscription{queue: queue, routingKey: routingKey, handler: handler}

	c.mu.Lock()
	c.subs = append(c.subs, s)
	connected := c.connected
	c.mu.Unlock()

	if !connected {
		// Declared on (re)connect.
		return nil
	}
	return c.consume(s)
}

func (c *Connector) consume(s subscription) error {
	c.mu.RLock()
	ch := c.ch
	c.mu.RUnlock()
	if ch == nil {
		return ErrChannelUnavailable
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.declareDeadLetter(ch); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(s.queue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": deadLetterExchange,
	}); err != nil {
		return err
	}
	if err := ch.QueueBind(s.queue, s.routingKey, exchangeName, false, nil); err != nil {
		return err
	}

	deliveries, err := ch.Consume(s.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go c.loop(s, deliveries)
	c.logger.Info("subscribed",
		zap.String("queue", s.queue),
		zap.String("routing_key", s.routingKey))
	return nil
}

func (c *Connector) declareDeadLetter(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(deadLetterExchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(deadLetterQueue, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.QueueBind(deadLetterQueue, "", deadLetterExchange, false, nil)
}

// loop processes one queue's deliveries strictly in order: the next message is not
// handled until the current one is acked or nacked. The loop ends when the channel
// closes; a reconnect starts a fresh one.
func (c *Connector) loop(s subscription, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		if err := s.handler(context.Background(), d.Body); err != nil {
			c.logger.Error("message handler failed, dead-lettering",
				zap.String("queue", s.queue),
				zap.String("routing_key", s.routingKey),
				zap.Error(err))
			_ = d.Nack(false, false)
			util.EventsConsumedTotal.WithLabelValues(s.queue, "dead-lettered").Inc()
			continue
		}
		_ = d.Ack(false)
		util.EventsConsumedTotal.WithLabelValues(s.queue, "ack").Inc()
	}
}

// Subscriptions returns the queues registered so far. Used by tests and startup
// logging.
func (c *Connector) Subscriptions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	queues := make([]string, 0, len(c.subs))
	for _, s := range c.subs {
		queues = append(queues, s.queue)
	}
	return queues
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
