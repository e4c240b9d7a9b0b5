package reminder

import (
	"errors"
	"fmt"
)

var (
	ErrTaskRequired       = errors.New("reminder task is required")
	ErrTimeRequired       = errors.New("reminder time is required")
	ErrTimeNotResolved    = errors.New("reminder time could not be resolved")
	ErrTargetRequired     = errors.New("target keyword is required")
	ErrUpdatesRequired    = errors.New("new task or new time is required")
	ErrNoMatchingReminder = errors.New("no pending reminder matches the keyword")
	ErrTargetQueryFailed  = errors.New("could not search reminders by keyword")
	ErrCouldNotSave       = errors.New("could not save reminder")

	ErrReminderDoesNotExist = errors.New("reminder does not exist")
)

// AmbiguousTargetError is returned when a keyword matches more than one
// pending reminder. Candidates are ordered by time, earliest first.
type AmbiguousTargetError struct {
	Target     string
	Candidates []Reminder
}

func (e *AmbiguousTargetError) Error() string {
	return fmt.Sprintf("keyword '%s' matches %d reminders", e.Target, len(e.Candidates))
}
