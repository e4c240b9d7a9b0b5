package reply

import (
	"fmt"
	"remindbot/internal/core/domain/reminder"
	"strings"
)

// FakeComposer renders a stable "Name:arg" text for every reply.
type FakeComposer struct{}

func NewFakeComposer() *FakeComposer {
	return &FakeComposer{}
}

func (FakeComposer) MissingTaskOrTime() string { return "MissingTaskOrTime" }

func (FakeComposer) TimeNotUnderstood(expression string) string {
	return "TimeNotUnderstood:" + expression
}

func (FakeComposer) ReminderCreated(r reminder.Reminder) string {
	return "ReminderCreated:" + r.TaskDescription
}

func (FakeComposer) CouldNotSave() string { return "CouldNotSave" }

func (FakeComposer) PendingList(reminders []reminder.Reminder) string {
	return "PendingList:" + tasks(reminders)
}

func (FakeComposer) NothingPending() string { return "NothingPending" }

func (FakeComposer) CouldNotList() string { return "CouldNotList" }

func (FakeComposer) MissingDeleteTarget() string { return "MissingDeleteTarget" }

func (FakeComposer) NoMatchForDelete(target string) string { return "NoMatchForDelete:" + target }

func (FakeComposer) AmbiguousForDelete(target string, candidates []reminder.Reminder) string {
	return fmt.Sprintf("AmbiguousForDelete:%s:%s", target, tasks(candidates))
}

func (FakeComposer) ReminderDeleted(r reminder.Reminder) string {
	return "ReminderDeleted:" + r.TaskDescription
}

func (FakeComposer) CouldNotDelete() string { return "CouldNotDelete" }

func (FakeComposer) MissingEditTarget() string { return "MissingEditTarget" }

func (FakeComposer) MissingUpdates() string { return "MissingUpdates" }

func (FakeComposer) NoMatchForEdit(target string) string { return "NoMatchForEdit:" + target }

func (FakeComposer) AmbiguousForEdit(target string, candidates []reminder.Reminder) string {
	return fmt.Sprintf("AmbiguousForEdit:%s:%s", target, tasks(candidates))
}

func (FakeComposer) EditTimeNotUnderstood(expression string) string {
	return "EditTimeNotUnderstood:" + expression
}

func (FakeComposer) ReminderUpdated(r reminder.Reminder) string {
	return "ReminderUpdated:" + r.TaskDescription
}

func (FakeComposer) CouldNotUpdate() string { return "CouldNotUpdate" }

func (FakeComposer) TargetQueryFailed() string { return "TargetQueryFailed" }

func (FakeComposer) NotUnderstood() string { return "NotUnderstood" }

func (FakeComposer) ClassifierFailed(err error) string { return "ClassifierFailed:" + err.Error() }

func (FakeComposer) UnexpectedError() string { return "UnexpectedError" }

func (FakeComposer) TooManyMessages() string { return "TooManyMessages" }

func (FakeComposer) Notification(r reminder.Reminder) string {
	return "Notification:" + r.TaskDescription
}

func tasks(reminders []reminder.Reminder) string {
	parts := make([]string, 0, len(reminders))
	for _, r := range reminders {
		parts = append(parts, r.TaskDescription)
	}
	return strings.Join(parts, ",")
}
