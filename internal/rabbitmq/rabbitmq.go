package rabbitmq

import (
	"context"
	"errors"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// Connection keeps an AMQP connection alive, dialing again after the broker
// drops it.
type Connection struct {
	log  logging.Logger
	url  string
	lock sync.RWMutex
	conn *amqp.Connection
}

func Dial(log logging.Logger, url string) (*Connection, error) {
	if log == nil {
		return nil, e.NewNilArgumentError("log")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	c := &Connection{log: log, url: url, conn: conn}
	go c.watch(conn)
	return c, nil
}

func (c *Connection) watch(conn *amqp.Connection) {
	for {
		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok {
			c.log.Info(context.Background(), "RabbitMQ connection closed.")
			return
		}
		c.log.Warning(context.Background(), "RabbitMQ connection lost.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(reconnectDelay)
			next, err := amqp.Dial(c.url)
			if err != nil {
				c.log.Error(context.Background(), "RabbitMQ reconnect failed.", logging.Entry("err", err))
				continue
			}
			c.lock.Lock()
			c.conn = next
			c.lock.Unlock()
			conn = next
			c.log.Info(context.Background(), "RabbitMQ reconnected.")
			break
		}
	}
}

func (c *Connection) current() *amqp.Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	return c.current().Close()
}

// Channel opens a channel that is reopened whenever the broker closes it,
// until Close is called.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}
	channel := &Channel{log: c.log, conn: c, ch: ch}
	go channel.watch(ch)
	return channel, nil
}

type Channel struct {
	log    logging.Logger
	conn   *Connection
	lock   sync.RWMutex
	ch     *amqp.Channel
	closed atomic.Bool
}

func (ch *Channel) watch(current *amqp.Channel) {
	for {
		reason, ok := <-current.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || ch.IsClosed() {
			return
		}
		ch.log.Warning(context.Background(), "RabbitMQ channel lost.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(reconnectDelay)
			next, err := ch.conn.current().Channel()
			if err != nil {
				ch.log.Error(context.Background(), "RabbitMQ channel reopen failed.", logging.Entry("err", err))
				continue
			}
			ch.lock.Lock()
			ch.ch = next
			ch.lock.Unlock()
			current = next
			ch.log.Info(context.Background(), "RabbitMQ channel reopened.")
			break
		}
	}
}

func (ch *Channel) current() *amqp.Channel {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	return ch.ch
}

func (ch *Channel) IsClosed() bool {
	return ch.closed.Load()
}

func (ch *Channel) Close() error {
	if ch.closed.Swap(true) {
		return amqp.ErrClosed
	}
	return ch.current().Close()
}

// DeclareQueue declares a durable queue.
func (ch *Channel) DeclareQueue(name string) error {
	if name == "" {
		return errors.New("queue name must not be empty")
	}
	_, err := ch.current().QueueDeclare(name, true, false, false, false, nil)
	return err
}

func (ch *Channel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	return ch.current().PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

// Consume returns deliveries that keep flowing across channel reopens. The
// returned channel is closed once Close has been called.
func (ch *Channel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)
	go func() {
		defer close(deliveries)
		for !ch.IsClosed() {
			d, err := ch.current().Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
			if err != nil {
				ch.log.Error(context.Background(), "Consume failed.", logging.Entry("queue", queue), logging.Entry("err", err))
				time.Sleep(reconnectDelay)
				continue
			}
			for msg := range d {
				deliveries <- msg
			}
			// The closed flag may be set right after the deliveries end.
			time.Sleep(reconnectDelay)
		}
		ch.log.Info(context.Background(), "Channel is closed, stop consuming.", logging.Entry("queue", queue))
	}()
	return deliveries, nil
}
