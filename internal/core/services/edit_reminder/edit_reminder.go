package editreminder

import (
	"context"
	"errors"
	c "remindbot/internal/core/domain/common"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/services"
	findtargets "remindbot/internal/core/services/find_targets"
	"time"
)

type Input struct {
	UserID  reminder.UserID
	Target  c.Optional[string]
	NewTask c.Optional[string]
	NewTime c.Optional[string]
}

func (i Input) Validate() error {
	if !i.Target.IsPresent {
		return reminder.ErrTargetRequired
	}
	if !i.NewTask.IsPresent && !i.NewTime.IsPresent {
		return reminder.ErrUpdatesRequired
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
	findTargets        services.Service[findtargets.Input, findtargets.Result]
	now                func() time.Time
}

func New(
	log logging.Logger,
	reminderRepository reminder.Repository,
	timeResolver reminder.TimeResolver,
	findTargets services.Service[findtargets.Input, findtargets.Result],
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
	if findTargets == nil {
		panic(e.NewNilArgumentError("findTargets"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                log,
		reminderRepository: reminderRepository,
		timeResolver:       timeResolver,
		findTargets:        findTargets,
		now:                now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := input.Validate(); err != nil {
		return result, err
	}

	found, err := s.findTargets.Run(ctx, findtargets.Input{UserID: input.UserID, Fragment: input.Target.Value})
	if err != nil {
		return result, err
	}
	target, err := found.Single()
	if err != nil {
		return result, err
	}

	update := reminder.UpdateInput{
		ID:           target.ID,
		UserIDEquals: c.NewOptional(input.UserID, true),
		StatusEquals: c.NewOptional(reminder.StatusPending, true),
	}
	if input.NewTime.IsPresent {
		at, err := s.timeResolver.Resolve(input.NewTime.Value, s.now())
		if err != nil {
			s.log.Info(
				ctx,
				"Could not resolve new reminder time, edit is cancelled.",
				logging.Entry("input", input),
				logging.Entry("err", err),
			)
			return result, reminder.ErrTimeNotResolved
		}
		update.DoAtUpdate = true
		update.At = at
	}
	if input.NewTask.IsPresent {
		update.DoTaskDescriptionUpdate = true
		update.TaskDescription = input.NewTask.Value
	}

	updated, err := s.reminderRepository.Update(ctx, update)
	if errors.Is(err, reminder.ErrReminderDoesNotExist) {
		s.log.Info(
			ctx,
			"Reminder is not pending anymore, skip editing.",
			logging.Entry("reminderID", target.ID),
		)
		return result, reminder.ErrNoMatchingReminder
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input), logging.Entry("reminderID", target.ID))
		return result, err
	}

	s.log.Info(
		ctx,
		"Reminder successfully edited.",
		logging.Entry("reminderID", updated.ID),
		logging.Entry("userID", updated.UserID),
		logging.Entry("at", updated.At),
	)
	result.Reminder = updated
	return result, nil
}
