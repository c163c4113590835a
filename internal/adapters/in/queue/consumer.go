// Package queue consumes the upstream order and driver events from RabbitMQ.
//
// Each queue gets one Consumer with prefetch 1, so messages are handled and
// acknowledged one at a time in delivery order. A message that cannot be
// handled is rejected without requeue.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderapi/internal/metrics"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrPoisonMessage wraps the cause of a message that was rejected.
	ErrPoisonMessage = errors.New("poison message")
	// ErrUnsupportedEvent is returned by handlers for event tags they do not
	// know. Such messages are acknowledged and discarded.
	ErrUnsupportedEvent = errors.New("unsupported event")
	// ErrDeliveriesClosed is returned by Run when the broker closes the
	// delivery stream.
	ErrDeliveriesClosed = errors.New("delivery channel closed")
)

// Broker is the part of *amqp.Channel the consumer uses.
type Broker interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// MessageHandler handles one message body.
type MessageHandler interface {
	Handle(ctx context.Context, body []byte) error
}

type Consumer struct {
	broker  Broker
	queue   string
	handler MessageHandler
	logger  *slog.Logger
}

func NewConsumer(broker Broker, queue string, handler MessageHandler, logger *slog.Logger) *Consumer {
	return &Consumer{
		broker:  broker,
		queue:   queue,
		handler: handler,
		logger:  logger.With("component", "consumer", "queue", queue),
	}
}

// Run declares the durable queue and consumes it until ctx is done or the
// broker closes the stream.
func (c *Consumer) Run(ctx context.Context) error {
	if _, err := c.broker.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.queue, err)
	}
	if err := c.broker.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos on %s: %w", c.queue, err)
	}

	deliveries, err := c.broker.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.logger.Info("waiting for messages")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopped")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.process(ctx, d)
		}
	}
}

// process lets an in-flight message finish even when ctx is cancelled. If the
// handler still fails during shutdown the message goes back to the queue.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	err := c.handler.Handle(context.WithoutCancel(ctx), d.Body)

	switch {
	case err == nil:
		c.settle(d.Ack(false), metrics.OutcomeOK)
	case errors.Is(err, ErrUnsupportedEvent):
		c.logger.Debug("message ignored", "error", err)
		c.settle(d.Ack(false), metrics.OutcomeIgnored)
	case ctx.Err() != nil:
		c.logger.Warn("message requeued on shutdown", "error", err)
		c.settle(d.Nack(false, true), metrics.OutcomeRequeued)
	default:
		poison := fmt.Errorf("%w: %w", ErrPoisonMessage, err)
		c.logger.Error("message rejected", "error", poison)
		c.settle(d.Reject(false), metrics.OutcomeRejected)
	}
}

func (c *Consumer) settle(err error, outcome string) {
	if err != nil {
		c.logger.Error("failed to settle message", "outcome", outcome, "error", err)
		outcome = metrics.OutcomeFailed
	}
	metrics.QueueMessagesTotal.WithLabelValues(c.queue, outcome).Inc()
}
