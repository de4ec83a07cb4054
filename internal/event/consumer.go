package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"push-service/internal/models"

	"github.com/streadway/amqp"
)

var ErrDeliveriesClosed = errors.New("delivery channel closed")

// ChangeHandler runs the push pipeline for one change event.
type ChangeHandler interface {
	Handle(ctx context.Context, event models.ChangeEvent) *models.DeliveryReport
}

type QueueConsumer struct {
	conn            *amqp.Connection
	channel         *amqp.Channel
	handler         ChangeHandler
	queueName       string
	deadLetterQueue string
}

type ConsumerConfig struct {
	RabbitMQURL     string
	QueueName       string
	DeadLetterQueue string
	PrefetchCount   int
}

func NewQueueConsumer(cfg *ConsumerConfig, handler ChangeHandler) (*QueueConsumer, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.Qos(
		cfg.PrefetchCount, // prefetch count
		0,                 // prefetch size
		false,             // global
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	// Declare dead letter queue
	_, err = ch.QueueDeclare(
		cfg.DeadLetterQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare DLQ: %w", err)
	}

	// Declare main queue with DLX
	_, err = ch.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": cfg.DeadLetterQueue,
		},
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &QueueConsumer{
		conn:            conn,
		channel:         ch,
		handler:         handler,
		queueName:       cfg.QueueName,
		deadLetterQueue: cfg.DeadLetterQueue,
	}, nil
}

// StartConsuming blocks until ctx is done or the broker closes the delivery
// channel, in which case it returns ErrDeliveriesClosed. Every decoded
// change is acked once the pipeline has run; undecodable ones go to the DLQ.
// Nothing is requeued.
func (q *QueueConsumer) StartConsuming(ctx context.Context) error {
	msgs, err := q.channel.Consume(
		q.queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	slog.Info("Change consumer started", "queue", q.queueName)

	return q.consume(ctx, msgs)
}

func (q *QueueConsumer) consume(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return ErrDeliveriesClosed
			}
			if err := q.processMessage(ctx, msg.Body); err != nil {
				slog.Error("Error processing change message, sending to DLQ",
					"message_id", msg.MessageId,
					"dlq", q.deadLetterQueue,
					"error", err,
				)
				msg.Nack(false, false)
				continue
			}
			msg.Ack(false)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (q *QueueConsumer) processMessage(ctx context.Context, body []byte) error {
	change, err := decodeChange(body)
	if err != nil {
		return err
	}
	q.handler.Handle(ctx, change)
	return nil
}

func decodeChange(body []byte) (models.ChangeEvent, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	change, err := msg.ToChangeEvent()
	if err != nil {
		return nil, fmt.Errorf("invalid change message %s: %w", msg.ID, err)
	}
	return change, nil
}

func (q *QueueConsumer) Close() error {
	if err := q.channel.Close(); err != nil {
		return err
	}
	return q.conn.Close()
}
