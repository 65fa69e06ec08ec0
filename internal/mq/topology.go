package mq

import (
	"context"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeEvents — topic exchange событий релизов.
//
// Routing key: <pipeline>.<event>, например
// "release_site.run.started" или "release.step.finished".
const ExchangeEvents = "releaser.events"

// Суффиксы routing key по типу события.
const (
	EventRunStarted   = "run.started"
	EventStepFinished = "step.finished"
	EventRunFinished  = "run.finished"
)

// RoutingKey возвращает routing key события pipeline.
func RoutingKey(pipeline, event string) string {
	return pipeline + "." + event
}

// WatchPattern возвращает шаблон привязки для watch.
// Пустой pipeline — все события.
func WatchPattern(pipeline string) string {
	pipeline = strings.TrimSpace(pipeline)
	if pipeline == "" {
		return "#"
	}
	return pipeline + ".#"
}

// SetupTopology объявляет exchange событий.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, declareExchange)
}

func declareExchange(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		ExchangeEvents, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeEvents, err)
	}
	return nil
}

// DeclareWatchQueue объявляет временную очередь наблюдателя и привязывает
// её к exchange по pattern. Очередь эксклюзивная и удаляется вместе
// с соединением, поэтому после reconnect её нужно объявить заново.
func DeclareWatchQueue(ch *amqp.Channel, pattern string) (string, error) {
	if err := declareExchange(ch); err != nil {
		return "", err
	}

	q, err := ch.QueueDeclare(
		"",    // name (генерирует сервер)
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return "", fmt.Errorf("declare watch queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, pattern, ExchangeEvents, false, nil); err != nil {
		return "", fmt.Errorf("bind queue %s to %s: %w", q.Name, ExchangeEvents, err)
	}

	return q.Name, nil
}
