package deletereminder

import (
	"context"
	"errors"
	c "remindbot/internal/core/domain/common"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/services"
	findtargets "remindbot/internal/core/services/find_targets"
)

type Input struct {
	UserID reminder.UserID
	Target c.Optional[string]
}

func (i Input) Validate() error {
	if !i.Target.IsPresent {
		return reminder.ErrTargetRequired
	}
	return nil
}

type Result struct {
	Reminder reminder.Reminder
}

type service struct {
	log                logging.Logger
	reminderRepository reminder.Repository
	findTargets        services.Service[findtargets.Input, findtargets.Result]
}

func New(
	log logging.Logger,
	reminderRepository reminder.Repository,
	findTargets services.Service[findtargets.Input, findtargets.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	if findTargets == nil {
		panic(e.NewNilArgumentError("findTargets"))
	}
	return &service{
		log:                log,
		reminderRepository: reminderRepository,
		findTargets:        findTargets,
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

	err = s.reminderRepository.Delete(ctx, reminder.DeleteInput{
		ID:           target.ID,
		UserIDEquals: c.NewOptional(input.UserID, true),
		StatusEquals: c.NewOptional(reminder.StatusPending, true),
	})
	if errors.Is(err, reminder.ErrReminderDoesNotExist) {
		s.log.Info(
			ctx,
			"Reminder is not pending anymore, skip deleting.",
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
		"Reminder successfully deleted.",
		logging.Entry("reminderID", target.ID),
		logging.Entry("userID", input.UserID),
	)
	result.Reminder = target
	return result, nil
}
