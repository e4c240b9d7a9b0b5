package inboundmessage

import (
	"context"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/inbound"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

type source interface {
	Consume(
		queue, consumer string,
		autoAck, exclusive, noLocal, noWait bool,
		args amqp091.Table,
	) (<-chan amqp091.Delivery, error)
}

type processor interface {
	Process(ctx context.Context, m inbound.Message)
}

// Consumer processes queued inbound messages one by one. Every delivery is
// acknowledged once processed, malformed ones included.
type Consumer struct {
	log       logging.Logger
	channel   source
	queue     string
	processor processor
	done      chan struct{}
}

func New(log logging.Logger, channel source, queue string, processor processor) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic(e.NewEmptyArgumentError("queue"))
	}
	if processor == nil {
		panic(e.NewNilArgumentError("processor"))
	}
	return &Consumer{log: log, channel: channel, queue: queue, processor: processor, done: make(chan struct{})}
}

func (c *Consumer) Consume() error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	go func() {
		defer close(c.done)
		for delivery := range deliveries {
			c.handle(delivery)
		}
	}()
	return nil
}

// Done is closed when the delivery channel has been exhausted.
func (c *Consumer) Done() <-chan struct{} {
	return c.done
}

func (c *Consumer) handle(delivery amqp091.Delivery) {
	defer c.ack(delivery)

	m := &schema.InboundMessage{}
	if err := m.Unmarshal(delivery.Body); err != nil {
		c.log.Error(
			context.Background(),
			"Could not unmarshal inbound message.",
			logging.Entry("err", err),
			logging.Entry("deliveryTag", delivery.DeliveryTag),
		)
		return
	}

	c.log.Info(
		context.Background(),
		"Got inbound message.",
		logging.Entry("messageID", m.ID),
		logging.Entry("userID", m.UserID),
	)
	c.processor.Process(context.Background(), inbound.Message{
		ID:         m.ID,
		UserID:     reminder.UserID(m.UserID),
		Text:       m.Text,
		ReceivedAt: m.ReceivedAt,
	})
}

func (c *Consumer) ack(delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(context.Background(), "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}
