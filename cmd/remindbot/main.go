package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"remindbot/internal/app"
	"remindbot/internal/app/consumers"
	"remindbot/internal/app/deps"
	"remindbot/internal/app/services"
	"syscall"
	"time"

	dl "remindbot/internal/core/domain/logging"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	services := services.InitServices(deps)

	processor := app.InitProcessor(deps, services)
	dispatcher, shutdownDispatcher := app.InitDispatcher(deps, processor)
	shutdownConsumers := consumers.InitConsumers(deps, processor)

	httpServer := app.InitHttpServer(deps, services, dispatcher)
	go start(httpServer, deps)

	stopCh, closeCh := createChannel()
	defer closeCh()

	<-stopCh
	shutdown(context.Background(), httpServer, deps, func(ctx context.Context) {
		shutdownDispatcher(ctx)
		shutdownConsumers(ctx)
		shutdownDeps()
	})
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

func start(server *http.Server, deps *deps.Deps) {
	deps.Logger.Info(
		context.Background(),
		"HTTP server has started.",
		dl.Entry("address", server.Addr),
		dl.Entry("isTestMode", deps.Config.IsTestMode),
		dl.Entry("transport", deps.Config.MessengerTransport),
		dl.Entry("queue", deps.Config.QueueEnabled()),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	} else {
		deps.Logger.Info(context.Background(), "HTTP service is stopping gracefully.")
	}
}

func shutdown(ctx context.Context, server *http.Server, deps *deps.Deps, shutdownRest func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(ctx, deps.Config.MessageProcessingTimeout+5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		panic(err)
	}

	deps.Logger.Info(ctx, "HTTP server has shutdowned.")
	shutdownRest(ctx)
}
