package createreminder

import (
	"context"
	"fmt"
	c "remindbot/internal/core/domain/common"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/services"
	"time"
)

type Input struct {
	UserID reminder.UserID
	Task   c.Optional[string]
	Time   c.Optional[string]
}

func (i Input) Validate() error {
	if !i.Task.IsPresent {
		return reminder.ErrTaskRequired
	}
	if !i.Time.IsPresent {
		return reminder.ErrTimeRequired
	}
	return nil
}

type Result struct {
	Reminder reminder.Reminder
}

type service struct {
	log                logging.Logger
	reminderRepository reminder.Repository
	timeResolver       reminder.TimeResolver
	now                func() time.Time
}

func New(
	log logging.Logger,
	reminderRepository reminder.Repository,
	timeResolver reminder.TimeResolver,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	if timeResolver == nil {
		panic(e.NewNilArgumentError("timeResolver"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                log,
		reminderRepository: reminderRepository,
		timeResolver:       timeResolver,
		now:                now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := input.Validate(); err != nil {
		return result, err
	}

	now := s.now()
	at, err := s.timeResolver.Resolve(input.Time.Value, now)
	if err != nil {
		s.log.Info(
			ctx,
			"Could not resolve reminder time.",
			logging.Entry("input", input),
			logging.Entry("err", err),
		)
		return result, reminder.ErrTimeNotResolved
	}

	createdReminder, err := s.reminderRepository.Create(ctx, reminder.CreateInput{
		UserID:          input.UserID,
		TaskDescription: input.Task.Value,
		At:              at,
		Status:          reminder.StatusPending,
		CreatedAt:       now,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, fmt.Errorf("%w: %w", reminder.ErrCouldNotSave, err)
	}

	s.log.Info(
		ctx,
		"Reminder successfully created.",
		logging.Entry("reminderID", createdReminder.ID),
		logging.Entry("userID", createdReminder.UserID),
		logging.Entry("at", createdReminder.At),
	)
	result.Reminder = createdReminder
	return result, nil
}
