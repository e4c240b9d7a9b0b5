package reminder

import (
	"context"
	"time"
)

type ID int64

// UserID is the opaque chat address of the reminder owner.
type UserID string

type Reminder struct {
	ID              ID
	UserID          UserID
	TaskDescription string
	At              time.Time
	Status          Status
	CreatedAt       time.Time
}

func (r Reminder) IsDue(now time.Time) bool {
	return r.Status == StatusPending && !r.At.After(now)
}

// TimeResolver turns a free-form time expression into an absolute UTC instant.
// Implementations must not read the wall clock: the same expression and
// reference always resolve to the same instant.
type TimeResolver interface {
	Resolve(expression string, reference time.Time) (time.Time, error)
}

// Messenger delivers a text to the chat address of a user.
type Messenger interface {
	Deliver(ctx context.Context, userID UserID, text string) error
}
