package consumers

import (
	"context"
	"remindbot/internal/app/deps"
	dl "remindbot/internal/core/domain/logging"
	messagedispatcher "remindbot/internal/implementations/message_dispatcher"
	inboundmessage "remindbot/internal/rabbitmq/consumers/inbound_message"
)

func initInboundMessageConsumer(deps *deps.Deps, processor *messagedispatcher.Processor) func(ctx context.Context) {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqInboundQueue
	if err := rabbitmqChannel.DeclareQueue(queue); err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}

	consumer := inboundmessage.New(deps.Logger, rabbitmqChannel, queue, processor)
	if err = consumer.Consume(); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func(ctx context.Context) {
		rabbitmqChannel.Close()
		select {
		case <-consumer.Done():
			deps.Logger.Info(ctx, "Consumer has stopped.", dl.Entry("queue", queue))
		case <-ctx.Done():
			deps.Logger.Warning(ctx, "Consumer did not stop in time.", dl.Entry("queue", queue))
		}
	}
}

// InitConsumers starts queue consumers. Without RabbitMQ there is nothing
// to consume and the returned shutdown is a no-op.
func InitConsumers(deps *deps.Deps, processor *messagedispatcher.Processor) func(ctx context.Context) {
	if deps.Rabbitmq == nil {
		return func(ctx context.Context) {}
	}
	shutdownInboundMessageConsumer := initInboundMessageConsumer(deps, processor)

	return func(ctx context.Context) {
		shutdownInboundMessageConsumer(ctx)
	}
}
