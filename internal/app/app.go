package app

import (
	"context"
	"fmt"
	"net/http"
	"remindbot/internal/app/deps"
	"remindbot/internal/app/services"
	"remindbot/internal/config"
	"remindbot/internal/core/domain/inbound"
	dl "remindbot/internal/core/domain/logging"
	httpx "remindbot/internal/http"
	sweepevents "remindbot/internal/http/handlers/sweeps/sweep_events"
	triggersweep "remindbot/internal/http/handlers/sweeps/trigger_sweep"
	bridgemessage "remindbot/internal/http/handlers/webhooks/bridge_message"
	twiliomessage "remindbot/internal/http/handlers/webhooks/twilio_message"
	messagedispatcher "remindbot/internal/implementations/message_dispatcher"
	inboundmessage "remindbot/internal/rabbitmq/publishers/inbound_message"
)

func InitProcessor(deps *deps.Deps, s *services.Services) *messagedispatcher.Processor {
	return messagedispatcher.NewProcessor(
		deps.Logger,
		s.HandleMessage,
		deps.Messenger,
		deps.Composer,
		deps.Config.MessageProcessingTimeout,
	)
}

// InitDispatcher returns the queue publisher when RabbitMQ is configured
// and the in-process dispatcher otherwise. The returned shutdown stops
// accepting messages.
func InitDispatcher(deps *deps.Deps, processor *messagedispatcher.Processor) (inbound.Dispatcher, func(ctx context.Context)) {
	if deps.Rabbitmq == nil {
		dispatcher := messagedispatcher.New(deps.Logger, processor, deps.Now)
		return dispatcher, func(ctx context.Context) { _ = dispatcher.Close(ctx) }
	}

	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	if err := rabbitmqChannel.DeclareQueue(deps.Config.RabbitmqInboundQueue); err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}
	publisher := inboundmessage.NewRabbitMQ(deps.Logger, rabbitmqChannel, deps.Config.RabbitmqInboundQueue, deps.Now)
	return publisher, func(ctx context.Context) {
		deps.Logger.Info(ctx, "Shutting down inbound message publisher.")
		rabbitmqChannel.Close()
	}
}

func InitHttpServer(deps *deps.Deps, s *services.Services, dispatcher inbound.Dispatcher) *http.Server {
	routes := httpx.Routes{
		AllowedOrigins: deps.Config.AllowedOrigins,
		TokenValidator: deps.TriggerTokenValidator,
		BridgeWebhook:  bridgemessage.New(deps.Logger, dispatcher, deps.Now),
		TriggerSweep:   triggersweep.New(deps.Logger, s.SendDueReminders),
		SweepEvents:    sweepevents.New(deps.Logger, deps.SseServer),
	}
	if deps.Config.MessengerTransport == config.TransportTwilio {
		var validator twiliomessage.SignatureValidator
		if deps.TwilioSignatureValidator != nil {
			validator = deps.TwilioSignatureValidator
		}
		routes.TwilioWebhook = twiliomessage.New(
			deps.Logger,
			dispatcher,
			validator,
			deps.Config.TwilioWebhookURL,
			deps.Now,
		)
	}

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler: httpx.NewRouter(routes),
		Addr:    address,
	}
}
