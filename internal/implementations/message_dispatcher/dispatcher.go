package messagedispatcher

import (
	"context"
	"errors"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/inbound"
	"remindbot/internal/core/domain/logging"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrDispatcherClosed = errors.New("message dispatcher is closed")

type processor interface {
	Process(ctx context.Context, m inbound.Message)
}

// Dispatcher processes every message in its own goroutine, detached from
// the request that delivered it.
type Dispatcher struct {
	log       logging.Logger
	processor processor
	now       func() time.Time

	lock     sync.Mutex
	closed   bool
	inFlight sync.WaitGroup
}

func New(log logging.Logger, processor processor, now func() time.Time) *Dispatcher {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if processor == nil {
		panic(e.NewNilArgumentError("processor"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Dispatcher{log: log, processor: processor, now: now}
}

func (d *Dispatcher) Dispatch(ctx context.Context, m inbound.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.ReceivedAt.IsZero() {
		m.ReceivedAt = d.now()
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	d.inFlight.Add(1)

	background := logging.WithEntries(context.Background(), logging.EntriesFrom(ctx)...)
	go func() {
		defer d.inFlight.Done()
		d.processor.Process(background, m)
	}()

	d.log.Info(ctx, "Message dispatched.", logging.Entry("messageID", m.ID), logging.Entry("userID", m.UserID))
	return nil
}

// Close stops accepting messages and waits for the in-flight ones until
// ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.lock.Lock()
	d.closed = true
	d.lock.Unlock()

	done := make(chan struct{})
	go func() {
		d.inFlight.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.log.Info(ctx, "Message dispatcher drained.")
		return nil
	case <-ctx.Done():
		d.log.Warning(ctx, "Message dispatcher closed with messages in flight.")
		return ctx.Err()
	}
}
