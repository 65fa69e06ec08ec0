package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// errDeliveriesClosed — брокер закрыл канал доставки (обычно разрыв соединения).
var errDeliveriesClosed = errors.New("deliveries channel closed")

// Handler обрабатывает одно событие. Ошибка логируется, сообщение не возвращается в очередь:
// событие уже произошло, повторная доставка его не исправит.
type Handler func(ctx context.Context, msg *Message) error

// QueueSetup объявляет очередь на канале и возвращает её имя.
// Вызывается при каждом (пере)подключении.
type QueueSetup func(ch *amqp.Channel) (string, error)

// ConsumerConfig — конфигурация consumer.
type ConsumerConfig struct {
	// Setup — объявление очереди.
	Setup QueueSetup

	// Handler — обработчик событий.
	Handler Handler

	// Prefetch — сколько сообщений брокер отдаёт без подтверждения (по умолчанию 10).
	Prefetch int
}

// Consumer читает события из очереди, которую объявляет Setup.
type Consumer struct {
	conn   *Connection
	logger *slog.Logger
	cfg    ConsumerConfig
}

// NewConsumer создаёт новый Consumer.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{conn: conn, logger: logger, cfg: cfg}
}

// Start читает события, пока ctx не отменён.
//
// После разрыва соединения Consumer ждёт переподключения Connection
// и объявляет очередь заново. Ошибка Setup на живом соединении
// возвращается сразу.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		queue, deliveries, err := c.subscribe()
		switch {
		case err == nil:
			c.logger.Debug("consumer started", "queue", queue)
			err = c.drain(ctx, queue, deliveries)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("event stream interrupted, waiting for reconnect", "queue", queue, "error", err)
		case errors.Is(err, ErrNoChannel) || !c.conn.IsConnected():
			c.logger.Warn("cannot subscribe, waiting for reconnect", "error", err)
		default:
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.conn.ReconnectNotify():
		}
	}
}

// subscribe объявляет очередь и подписывается на неё.
func (c *Consumer) subscribe() (string, <-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil {
		return "", nil, ErrNoChannel
	}

	queue, err := c.cfg.Setup(ch)
	if err != nil {
		return "", nil, err
	}

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return "", nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return "", nil, fmt.Errorf("consume %s: %w", queue, err)
	}
	return queue, deliveries, nil
}

// drain передаёт сообщения обработчику до отмены ctx или закрытия канала.
func (c *Consumer) drain(ctx context.Context, queue string, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errDeliveriesClosed
			}
			c.dispatch(ctx, queue, d)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, queue string, d amqp.Delivery) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.logger.Error("malformed event dropped", "queue", queue, "error", err, "body", string(d.Body))
		_ = d.Nack(false, false)
		return
	}

	if err := c.cfg.Handler(ctx, &msg); err != nil {
		c.logger.Error("event handler failed", "queue", queue, "message_id", msg.ID, "type", msg.Type, "error", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

// ParsePayload декодирует payload сообщения в T.
//
// После json.Unmarshal конверта payload приходит как map[string]any,
// поэтому он кодируется обратно и декодируется уже в нужный тип.
func ParsePayload[T any](msg *Message) (T, error) {
	var result T

	raw, err := json.Marshal(msg.Payload)
	if err != nil {
		return result, fmt.Errorf("marshal payload: %w", err)
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("unmarshal payload: %w", err)
	}
	return result, nil
}
