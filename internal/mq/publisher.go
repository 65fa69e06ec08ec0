package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения.
type MessageType string

// Типы сообщений.
const (
	MessageTypeRunStarted   MessageType = "run.started"
	MessageTypeStepFinished MessageType = "step.finished"
	MessageTypeRunFinished  MessageType = "run.finished"
)

// Message — конверт события.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — RunPayload или StepPayload.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage создаёт сообщение с новым ID.
func NewMessage(msgType MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// RunPayload — payload событий run.started и run.finished.
type RunPayload struct {
	RunID      uuid.UUID `json:"run_id"`
	Pipeline   string    `json:"pipeline"`
	Version    string    `json:"version"`
	Hosts      []string  `json:"hosts"`
	Status     string    `json:"status"`
	FailedStep string    `json:"failed_step,omitempty"`
	Error      string    `json:"error,omitempty"`
	DryRun     bool      `json:"dry_run,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
}

// StepPayload — payload события step.finished.
type StepPayload struct {
	RunID      uuid.UUID `json:"run_id"`
	Pipeline   string    `json:"pipeline"`
	Index      int       `json:"index"`
	Step       string    `json:"step"`
	Mode       string    `json:"mode"`
	Host       string    `json:"host,omitempty"`
	Status     string    `json:"status"`
	ExitCode   int       `json:"exit_code"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// Publisher публикует события в exchange releaser.events.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение с routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			ExchangeEvents, // exchange
			routingKey,     // routing key
			false,          // mandatory
			false,          // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", ExchangeEvents, routingKey, err)
		}

		p.logger.Debug("published event",
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}
