package reminder

import (
	"context"
	c "remindbot/internal/core/domain/common"
	"time"
)

type OrderBy struct {
	v string
}

var (
	OrderByNotSet OrderBy = OrderBy{}
	OrderByIDAsc  OrderBy = OrderBy{v: "id_asc"}
	OrderByAtAsc  OrderBy = OrderBy{v: "at_asc"}
)

type CreateInput struct {
	UserID          UserID
	TaskDescription string
	At              time.Time
	Status          Status
	CreatedAt       time.Time
}

type ReadOptions struct {
	UserIDEquals        c.Optional[UserID]
	StatusIn            c.Optional[[]Status]
	DescriptionContains c.Optional[string]
	AtBefore            c.Optional[time.Time]
	OrderBy             OrderBy
	Limit               c.Optional[uint]
}

// PendingForUser selects everything a user may still list or target.
func PendingForUser(userID UserID) ReadOptions {
	return ReadOptions{
		UserIDEquals: c.NewOptional(userID, true),
		StatusIn:     c.NewOptional([]Status{StatusPending}, true),
		OrderBy:      OrderByAtAsc,
	}
}

// PendingByKeyword selects pending reminders of a user whose task contains
// the keyword, ignoring case.
func PendingByKeyword(userID UserID, keyword string) ReadOptions {
	options := PendingForUser(userID)
	options.DescriptionContains = c.NewOptional(keyword, true)
	return options
}

// Due selects pending reminders of every user scheduled at or before now.
func Due(now time.Time) ReadOptions {
	return ReadOptions{
		StatusIn: c.NewOptional([]Status{StatusPending}, true),
		AtBefore: c.NewOptional(now, true),
		OrderBy:  OrderByAtAsc,
	}
}

// UpdateInput patches the fields whose Do*Update flag is set. When a guard
// is present the row is updated only if it still matches the guard,
// otherwise ErrReminderDoesNotExist is returned.
type UpdateInput struct {
	ID                      ID
	UserIDEquals            c.Optional[UserID]
	StatusEquals            c.Optional[Status]
	DoTaskDescriptionUpdate bool
	TaskDescription         string
	DoAtUpdate              bool
	At                      time.Time
	DoStatusUpdate          bool
	Status                  Status
}

// TransitionStatus moves a reminder from one status to another. The store
// returns ErrReminderDoesNotExist when the reminder is not in status from.
func TransitionStatus(id ID, from Status, to Status) UpdateInput {
	return UpdateInput{
		ID:             id,
		StatusEquals:   c.NewOptional(from, true),
		DoStatusUpdate: true,
		Status:         to,
	}
}

// SetStatus writes a status regardless of the current one.
func SetStatus(id ID, status Status) UpdateInput {
	return UpdateInput{ID: id, DoStatusUpdate: true, Status: status}
}

type DeleteInput struct {
	ID           ID
	UserIDEquals c.Optional[UserID]
	StatusEquals c.Optional[Status]
}

type Repository interface {
	Create(ctx context.Context, input CreateInput) (Reminder, error)
	Read(ctx context.Context, options ReadOptions) ([]Reminder, error)
	Update(ctx context.Context, input UpdateInput) (Reminder, error)
	Delete(ctx context.Context, input DeleteInput) error
}
