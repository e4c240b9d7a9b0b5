package services

import (
	"remindbot/internal/app/deps"
	drl "remindbot/internal/core/domain/rate_limiter"
	"remindbot/internal/core/services"
	createreminder "remindbot/internal/core/services/create_reminder"
	deletereminder "remindbot/internal/core/services/delete_reminder"
	editreminder "remindbot/internal/core/services/edit_reminder"
	findtargets "remindbot/internal/core/services/find_targets"
	handleintent "remindbot/internal/core/services/handle_intent"
	handlemessage "remindbot/internal/core/services/handle_message"
	listuserreminders "remindbot/internal/core/services/list_user_reminders"
	ratelimiting "remindbot/internal/core/services/rate_limiting"
	sendduereminders "remindbot/internal/core/services/send_due_reminders"
)

type Services struct {
	CreateReminder    services.Service[createreminder.Input, createreminder.Result]
	ListUserReminders services.Service[listuserreminders.Input, listuserreminders.Result]
	FindTargets       services.Service[findtargets.Input, findtargets.Result]
	DeleteReminder    services.Service[deletereminder.Input, deletereminder.Result]
	EditReminder      services.Service[editreminder.Input, editreminder.Result]

	HandleIntent  services.Service[handleintent.Input, handleintent.Result]
	HandleMessage services.Service[handlemessage.Input, handlemessage.Result]

	SendDueReminders services.Service[sendduereminders.Input, sendduereminders.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.CreateReminder = createreminder.New(
		deps.Logger,
		deps.ReminderRepository,
		deps.TimeResolver,
		deps.Now,
	)
	s.ListUserReminders = listuserreminders.New(deps.Logger, deps.ReminderRepository)
	s.FindTargets = findtargets.New(deps.Logger, deps.ReminderRepository)
	s.DeleteReminder = deletereminder.New(deps.Logger, deps.ReminderRepository, s.FindTargets)
	s.EditReminder = editreminder.New(
		deps.Logger,
		deps.ReminderRepository,
		deps.TimeResolver,
		s.FindTargets,
		deps.Now,
	)

	s.HandleIntent = handleintent.New(
		deps.Logger,
		deps.Messenger,
		deps.Composer,
		s.CreateReminder,
		s.ListUserReminders,
		s.DeleteReminder,
		s.EditReminder,
	)
	s.HandleMessage = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.PerMinute(deps.Config.InboundRateLimitPerMinute),
		handlemessage.New(deps.Logger, deps.Classifier, s.HandleIntent),
	)

	s.SendDueReminders = sendduereminders.New(
		deps.Logger,
		deps.ReminderRepository,
		deps.Messenger,
		deps.Composer,
		deps.SweepObserver,
		deps.Config.SweepConcurrency,
		deps.Now,
	)

	return s
}
