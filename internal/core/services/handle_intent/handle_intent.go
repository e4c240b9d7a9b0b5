package handleintent

import (
	"context"
	"errors"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/intent"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/domain/reply"
	"remindbot/internal/core/services"
	createreminder "remindbot/internal/core/services/create_reminder"
	deletereminder "remindbot/internal/core/services/delete_reminder"
	editreminder "remindbot/internal/core/services/edit_reminder"
	listuserreminders "remindbot/internal/core/services/list_user_reminders"
)

type Input struct {
	UserID reminder.UserID
	Intent intent.Intent
}

type Result struct {
	Reply string
}

type service struct {
	log               logging.Logger
	messenger         reminder.Messenger
	composer          reply.Composer
	createReminder    services.Service[createreminder.Input, createreminder.Result]
	listUserReminders services.Service[listuserreminders.Input, listuserreminders.Result]
	deleteReminder    services.Service[deletereminder.Input, deletereminder.Result]
	editReminder      services.Service[editreminder.Input, editreminder.Result]
}

func New(
	log logging.Logger,
	messenger reminder.Messenger,
	composer reply.Composer,
	createReminder services.Service[createreminder.Input, createreminder.Result],
	listUserReminders services.Service[listuserreminders.Input, listuserreminders.Result],
	deleteReminder services.Service[deletereminder.Input, deletereminder.Result],
	editReminder services.Service[editreminder.Input, editreminder.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if messenger == nil {
		panic(e.NewNilArgumentError("messenger"))
	}
	if composer == nil {
		panic(e.NewNilArgumentError("composer"))
	}
	if createReminder == nil {
		panic(e.NewNilArgumentError("createReminder"))
	}
	if listUserReminders == nil {
		panic(e.NewNilArgumentError("listUserReminders"))
	}
	if deleteReminder == nil {
		panic(e.NewNilArgumentError("deleteReminder"))
	}
	if editReminder == nil {
		panic(e.NewNilArgumentError("editReminder"))
	}
	return &service{
		log:               log,
		messenger:         messenger,
		composer:          composer,
		createReminder:    createReminder,
		listUserReminders: listUserReminders,
		deleteReminder:    deleteReminder,
		editReminder:      editReminder,
	}
}

// Run performs the workflow selected by the intent and delivers exactly one
// reply to the user. Workflow failures become reply texts, only a failed
// delivery is returned as an error.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Intent == nil {
		input.Intent = intent.Unknown{}
	}
	r := &replier{service: s, userID: input.UserID}
	if err := input.Intent.Accept(ctx, r); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.UserID))
		r.text = s.composer.UnexpectedError()
	}
	result.Reply = r.text

	err = s.messenger.Deliver(ctx, input.UserID, result.Reply)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not deliver reply.",
			logging.Entry("userID", input.UserID),
			logging.Entry("intent", input.Intent.Kind()),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Reply delivered.",
		logging.Entry("userID", input.UserID),
		logging.Entry("intent", input.Intent.Kind()),
	)
	return result, nil
}

type replier struct {
	*service
	userID reminder.UserID
	text   string
}

func (r *replier) VisitAddReminder(ctx context.Context, i intent.AddReminder) error {
	res, err := r.createReminder.Run(ctx, createreminder.Input{UserID: r.userID, Task: i.Task, Time: i.Time})
	switch {
	case err == nil:
		r.text = r.composer.ReminderCreated(res.Reminder)
	case errors.Is(err, reminder.ErrTaskRequired), errors.Is(err, reminder.ErrTimeRequired):
		r.text = r.composer.MissingTaskOrTime()
	case errors.Is(err, reminder.ErrTimeNotResolved):
		r.text = r.composer.TimeNotUnderstood(i.Time.Value)
	default:
		r.text = r.composer.CouldNotSave()
	}
	return nil
}

func (r *replier) VisitListReminders(ctx context.Context, i intent.ListReminders) error {
	res, err := r.listUserReminders.Run(ctx, listuserreminders.Input{UserID: r.userID})
	switch {
	case err != nil:
		r.text = r.composer.CouldNotList()
	case len(res.Reminders) == 0:
		r.text = r.composer.NothingPending()
	default:
		r.text = r.composer.PendingList(res.Reminders)
	}
	return nil
}

func (r *replier) VisitDeleteReminder(ctx context.Context, i intent.DeleteReminder) error {
	res, err := r.deleteReminder.Run(ctx, deletereminder.Input{UserID: r.userID, Target: i.Target})
	var ambiguous *reminder.AmbiguousTargetError
	switch {
	case err == nil:
		r.text = r.composer.ReminderDeleted(res.Reminder)
	case errors.Is(err, reminder.ErrTargetRequired):
		r.text = r.composer.MissingDeleteTarget()
	case errors.Is(err, reminder.ErrNoMatchingReminder):
		r.text = r.composer.NoMatchForDelete(i.Target.Value)
	case errors.As(err, &ambiguous):
		r.text = r.composer.AmbiguousForDelete(ambiguous.Target, ambiguous.Candidates)
	case errors.Is(err, reminder.ErrTargetQueryFailed):
		r.text = r.composer.TargetQueryFailed()
	default:
		r.text = r.composer.CouldNotDelete()
	}
	return nil
}

func (r *replier) VisitEditReminder(ctx context.Context, i intent.EditReminder) error {
	res, err := r.editReminder.Run(ctx, editreminder.Input{
		UserID:  r.userID,
		Target:  i.Target,
		NewTask: i.Updates.Task,
		NewTime: i.Updates.Time,
	})
	var ambiguous *reminder.AmbiguousTargetError
	switch {
	case err == nil:
		r.text = r.composer.ReminderUpdated(res.Reminder)
	case errors.Is(err, reminder.ErrTargetRequired):
		r.text = r.composer.MissingEditTarget()
	case errors.Is(err, reminder.ErrUpdatesRequired):
		r.text = r.composer.MissingUpdates()
	case errors.Is(err, reminder.ErrNoMatchingReminder):
		r.text = r.composer.NoMatchForEdit(i.Target.Value)
	case errors.As(err, &ambiguous):
		r.text = r.composer.AmbiguousForEdit(ambiguous.Target, ambiguous.Candidates)
	case errors.Is(err, reminder.ErrTargetQueryFailed):
		r.text = r.composer.TargetQueryFailed()
	case errors.Is(err, reminder.ErrTimeNotResolved):
		r.text = r.composer.EditTimeNotUnderstood(i.Updates.Time.Value)
	default:
		r.text = r.composer.CouldNotUpdate()
	}
	return nil
}

func (r *replier) VisitUnknown(ctx context.Context, i intent.Unknown) error {
	if i.Err != nil {
		r.text = r.composer.ClassifierFailed(i.Err)
		return nil
	}
	r.text = r.composer.NotUnderstood()
	return nil
}
