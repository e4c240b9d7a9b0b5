package main

import (
	"context"
	"os"
	"os/signal"
	"remindbot/internal/app/deps"
	"remindbot/internal/app/services"
	"remindbot/internal/core/domain/logging"
	sendduereminders "remindbot/internal/core/services/send_due_reminders"
	"syscall"

	"github.com/robfig/cron/v3"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)

	scheduler := cron.New(
		cron.WithLocation(deps.Config.Location),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err := scheduler.AddFunc(deps.Config.SweepSchedule, func() {
		ctx := logging.WithEntries(context.Background(), logging.Entry("job", "sweep"))
		log.Info(ctx, "Launching due reminders sweep.")
		result, err := services.SendDueReminders.Run(ctx, sendduereminders.Input{})
		if err != nil {
			log.Error(ctx, "Sweep returned an error.", logging.Entry("err", err))
			return
		}
		log.Info(
			ctx,
			"Sweep finished.",
			logging.Entry("total", result.Summary.Total),
			logging.Entry("delivered", result.Summary.Delivered),
			logging.Entry("errors", result.Summary.Errored),
		)
	})
	if err != nil {
		log.Error(context.Background(), "Invalid sweep schedule.", logging.Entry("schedule", deps.Config.SweepSchedule))
		panic(err)
	}

	stopCh, closeCh := createChannel()
	defer closeCh()

	log.Info(
		context.Background(),
		"Starting periodic reminder sweeper.",
		logging.Entry("schedule", deps.Config.SweepSchedule),
	)
	scheduler.Start()

	<-stopCh
	log.Info(context.Background(), "Stopping periodic reminder sweeper.")
	<-scheduler.Stop().Done()
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}
