package calltimeout

import (
	"context"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/reminder"
	"time"
)

type repository struct {
	inner   reminder.Repository
	timeout time.Duration
}

// Repository bounds every store call by its own timeout.
func Repository(inner reminder.Repository, timeout time.Duration) reminder.Repository {
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	if timeout <= 0 {
		return inner
	}
	return &repository{inner: inner, timeout: timeout}
}

func (r *repository) Create(ctx context.Context, input reminder.CreateInput) (reminder.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.Create(ctx, input)
}

func (r *repository) Read(ctx context.Context, options reminder.ReadOptions) ([]reminder.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.Read(ctx, options)
}

func (r *repository) Update(ctx context.Context, input reminder.UpdateInput) (reminder.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.Update(ctx, input)
}

func (r *repository) Delete(ctx context.Context, input reminder.DeleteInput) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.Delete(ctx, input)
}

type messenger struct {
	inner   reminder.Messenger
	timeout time.Duration
}

// Messenger bounds every delivery by its own timeout.
func Messenger(inner reminder.Messenger, timeout time.Duration) reminder.Messenger {
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	if timeout <= 0 {
		return inner
	}
	return &messenger{inner: inner, timeout: timeout}
}

func (m *messenger) Deliver(ctx context.Context, userID reminder.UserID, text string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.inner.Deliver(ctx, userID, text)
}
