package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNoChannel — канал недоступен (соединение разорвано или закрыто).
var ErrNoChannel = errors.New("no amqp channel available")

// Задержки между попытками переподключения.
const (
	reconnectMinDelay = time.Second
	reconnectMaxDelay = 30 * time.Second
)

// Connection — AMQP соединение с одним каналом и автоматическим reconnect.
//
// Publisher держит его на время одного run, Consumer команды watch —
// пока пользователь не прервёт процесс.
type Connection struct {
	url    string
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool

	done        chan struct{}
	reconnected chan struct{}
}

// NewConnection подключается к RabbitMQ. Первая попытка не повторяется:
// недоступный брокер при старте — ошибка вызывающего.
func NewConnection(url string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Connection{
		url:         url,
		logger:      logger,
		done:        make(chan struct{}),
		reconnected: make(chan struct{}, 1),
	}

	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}
	c.set(conn, ch)

	go c.supervise(conn)

	return c, nil
}

func dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return conn, ch, nil
}

func (c *Connection) set(conn *amqp.Connection, ch *amqp.Channel) {
	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()
}

// supervise ждёт разрыва conn, переподключается и повторяет это до Close.
func (c *Connection) supervise(conn *amqp.Connection) {
	for {
		lost := conn.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-c.done:
			return
		case err := <-lost:
			if err != nil {
				c.logger.Warn("amqp connection lost", "error", err)
			}
		}

		c.mu.Lock()
		c.channel = nil
		c.mu.Unlock()

		next, ok := c.redial()
		if !ok {
			return
		}
		conn = next
	}
}

// redial повторяет dial с удвоением задержки. false — Connection закрыт.
func (c *Connection) redial() (*amqp.Connection, bool) {
	delay := reconnectMinDelay
	for {
		select {
		case <-c.done:
			return nil, false
		case <-time.After(delay):
		}

		conn, ch, err := dial(c.url)
		if err != nil {
			delay = min(delay*2, reconnectMaxDelay)
			c.logger.Warn("amqp reconnect failed", "error", err, "retry_in", delay)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return nil, false
		}
		c.conn, c.channel = conn, ch
		c.mu.Unlock()

		c.logger.Info("reconnected to RabbitMQ")
		select {
		case c.reconnected <- struct{}{}:
		default:
		}
		return conn, true
	}
}

// Channel возвращает текущий канал (nil во время переподключения).
func (c *Connection) Channel() *amqp.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// ReconnectNotify сигналит после каждого успешного переподключения.
func (c *Connection) ReconnectNotify() <-chan struct{} {
	return c.reconnected
}

// WithChannel вызывает fn с текущим каналом.
func (c *Connection) WithChannel(ctx context.Context, fn func(ch *amqp.Channel) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch := c.Channel()
	if ch == nil {
		return ErrNoChannel
	}
	return fn(ch)
}

// IsConnected — соединение установлено и не закрыто.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close закрывает канал и соединение. Повторный вызов ничего не делает.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}
