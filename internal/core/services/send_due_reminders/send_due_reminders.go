package sendduereminders

import (
	"context"
	"errors"
	"fmt"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/domain/reply"
	"remindbot/internal/core/domain/sweep"
	"remindbot/internal/core/services"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

const DEFAULT_CONCURRENCY = 4

type Input struct{}

type Result struct {
	Summary sweep.Summary
}

type outcome struct {
	skipped            bool
	delivered          bool
	deliveryFailed     bool
	statusUpdateFailed bool
}

type service struct {
	log                logging.Logger
	reminderRepository reminder.Repository
	messenger          reminder.Messenger
	composer           reply.Composer
	observer           sweep.Observer
	concurrency        int
	now                func() time.Time
}

func New(
	log logging.Logger,
	reminderRepository reminder.Repository,
	messenger reminder.Messenger,
	composer reply.Composer,
	observer sweep.Observer,
	concurrency int,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	if messenger == nil {
		panic(e.NewNilArgumentError("messenger"))
	}
	if composer == nil {
		panic(e.NewNilArgumentError("composer"))
	}
	if observer == nil {
		panic(e.NewNilArgumentError("observer"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if concurrency < 1 {
		concurrency = DEFAULT_CONCURRENCY
	}
	return &service{
		log:                log,
		reminderRepository: reminderRepository,
		messenger:          messenger,
		composer:           composer,
		observer:           observer,
		concurrency:        concurrency,
		now:                now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	startedAt := s.now()
	due, err := s.reminderRepository.Read(ctx, reminder.Due(startedAt))
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("now", startedAt))
		return result, err
	}

	outcomes := make([]outcome, len(due))
	semaphore := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for ix, rem := range due {
		ix, rem := ix, rem
		semaphore <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				<-semaphore
				wg.Done()
			}()
			outcomes[ix] = s.process(ctx, rem)
		}()
	}
	wg.Wait()

	summary := sweep.Summary{StartedAt: startedAt, Total: len(due)}
	for _, o := range outcomes {
		if o.skipped {
			summary.Skipped++
			continue
		}
		summary.Processed++
		if o.delivered {
			summary.Delivered++
		}
		if o.deliveryFailed {
			summary.DeliveryFailures++
		}
		if o.statusUpdateFailed {
			summary.StatusUpdateFailures++
		}
		if o.deliveryFailed || o.statusUpdateFailed {
			summary.Errored++
		}
	}
	summary.FinishedAt = s.now()

	s.log.Info(
		ctx,
		"Due reminders sweep finished.",
		logging.Entry("total", summary.Total),
		logging.Entry("processed", summary.Processed),
		logging.Entry("skipped", summary.Skipped),
		logging.Entry("errors", summary.Errored),
	)
	if err := s.observer.SweepFinished(ctx, summary); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("summary", summary))
	}

	result.Summary = summary
	return result, nil
}

func (s *service) process(ctx context.Context, rem reminder.Reminder) (o outcome) {
	_, err := s.reminderRepository.Update(
		ctx,
		reminder.TransitionStatus(rem.ID, reminder.StatusPending, reminder.StatusSending),
	)
	if errors.Is(err, reminder.ErrReminderDoesNotExist) {
		s.log.Info(
			ctx,
			"Reminder is not pending anymore, skip sending.",
			logging.Entry("reminderID", rem.ID),
		)
		return outcome{skipped: true}
	}
	if err != nil {
		s.log.Warning(
			ctx,
			"Could not mark reminder as sending, sending anyway.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("err", err),
		)
	}

	finalStatus := reminder.StatusSent
	err = s.deliver(ctx, rem)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not deliver reminder.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("userID", rem.UserID),
			logging.Entry("err", err),
		)
		finalStatus = reminder.StatusFailed
		o.deliveryFailed = true
	} else {
		o.delivered = true
	}

	// The message may be out already, so the final status is written even
	// when the caller has gone away.
	_, err = s.reminderRepository.Update(
		context.WithoutCancel(ctx),
		reminder.SetStatus(rem.ID, finalStatus),
	)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not write final reminder status.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("status", finalStatus.String()),
			logging.Entry("err", err),
		)
		o.statusUpdateFailed = true
		return o
	}

	s.log.Info(
		ctx,
		"Reminder processed.",
		logging.Entry("reminderID", rem.ID),
		logging.Entry("status", finalStatus.String()),
	)
	return o
}

func (s *service) deliver(ctx context.Context, rem reminder.Reminder) (err error) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Clone().Recover(r)
			err = fmt.Errorf("panic during delivery: %v", r)
		}
	}()
	return s.messenger.Deliver(ctx, rem.UserID, s.composer.Notification(rem))
}
