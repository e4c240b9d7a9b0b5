package reply

import "remindbot/internal/core/domain/reminder"

// Composer renders every user-facing text of the bot.
type Composer interface {
	MissingTaskOrTime() string
	TimeNotUnderstood(expression string) string
	ReminderCreated(r reminder.Reminder) string
	CouldNotSave() string

	PendingList(reminders []reminder.Reminder) string
	NothingPending() string
	CouldNotList() string

	MissingDeleteTarget() string
	NoMatchForDelete(target string) string
	AmbiguousForDelete(target string, candidates []reminder.Reminder) string
	ReminderDeleted(r reminder.Reminder) string
	CouldNotDelete() string

	MissingEditTarget() string
	MissingUpdates() string
	NoMatchForEdit(target string) string
	AmbiguousForEdit(target string, candidates []reminder.Reminder) string
	EditTimeNotUnderstood(expression string) string
	ReminderUpdated(r reminder.Reminder) string
	CouldNotUpdate() string

	TargetQueryFailed() string
	NotUnderstood() string
	ClassifierFailed(err error) string
	UnexpectedError() string
	TooManyMessages() string

	Notification(r reminder.Reminder) string
}
