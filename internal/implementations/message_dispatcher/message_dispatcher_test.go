package messagedispatcher

import (
	"context"
	"errors"
	"remindbot/internal/core/domain/inbound"
	"remindbot/internal/core/domain/intent"
	"remindbot/internal/core/domain/logging"
	ratelimiter "remindbot/internal/core/domain/rate_limiter"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/domain/reply"
	handlemessage "remindbot/internal/core/services/handle_message"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var Now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type stubHandleMessage struct {
	run    func(ctx context.Context, input handlemessage.Input) (handlemessage.Result, error)
	inputs []handlemessage.Input
	lock   sync.Mutex
}

func (s *stubHandleMessage) Run(ctx context.Context, input handlemessage.Input) (handlemessage.Result, error) {
	s.lock.Lock()
	s.inputs = append(s.inputs, input)
	s.lock.Unlock()
	if s.run != nil {
		return s.run(ctx, input)
	}
	return handlemessage.Result{Intent: intent.ListReminders{}, Reply: "ok"}, nil
}

func (s *stubHandleMessage) Inputs() []handlemessage.Input {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]handlemessage.Input(nil), s.inputs...)
}

func newProcessor(
	service *stubHandleMessage,
	timeout time.Duration,
) (*Processor, *reminder.FakeMessenger, *logging.FakeLogger) {
	log := logging.NewFakeLogger()
	messenger := reminder.NewFakeMessenger()
	return NewProcessor(log, service, messenger, reply.NewFakeComposer(), timeout), messenger, log
}

func TestProcessorHandlesMessage(t *testing.T) {
	// Setup ---
	service := &stubHandleMessage{}
	processor, messenger, log := newProcessor(service, time.Second)
	m := inbound.Message{ID: "m1", UserID: "u1", Text: "list"}

	// Exercise ---
	processor.Process(context.Background(), m)

	// Verify ---
	assert := require.New(t)
	assert.Equal([]handlemessage.Input{{Message: m}}, service.Inputs())
	assert.Empty(messenger.Attempted)
	assert.Len(log.Records(logging.INFO), 1)
}

func TestProcessorRepliesWhenRateLimited(t *testing.T) {
	service := &stubHandleMessage{
		run: func(ctx context.Context, input handlemessage.Input) (handlemessage.Result, error) {
			return handlemessage.Result{}, ratelimiter.ErrRateLimitExceeded
		},
	}
	processor, messenger, _ := newProcessor(service, time.Second)

	processor.Process(context.Background(), inbound.Message{ID: "m1", UserID: "u1", Text: "list"})

	require.Equal(t, []reminder.Delivery{{UserID: "u1", Text: "TooManyMessages"}}, messenger.Delivered)
}

func TestProcessorRecoversFromPanic(t *testing.T) {
	// Setup ---
	service := &stubHandleMessage{
		run: func(ctx context.Context, input handlemessage.Input) (handlemessage.Result, error) {
			panic("classifier exploded")
		},
	}
	processor, messenger, log := newProcessor(service, time.Second)

	// Exercise ---
	require.NotPanics(t, func() {
		processor.Process(context.Background(), inbound.Message{ID: "m1", UserID: "u1", Text: "list"})
	})

	// Verify ---
	require.Equal(t, []reminder.Delivery{{UserID: "u1", Text: "UnexpectedError"}}, messenger.Delivered)
	require.Len(t, log.Records(logging.ERROR), 1)
}

func TestProcessorAppliesTimeout(t *testing.T) {
	var deadline time.Time
	service := &stubHandleMessage{
		run: func(ctx context.Context, input handlemessage.Input) (handlemessage.Result, error) {
			deadline, _ = ctx.Deadline()
			<-ctx.Done()
			return handlemessage.Result{}, ctx.Err()
		},
	}
	processor, messenger, log := newProcessor(service, 20*time.Millisecond)

	processor.Process(context.Background(), inbound.Message{ID: "m1", UserID: "u1"})

	require.False(t, deadline.IsZero())
	require.Empty(t, messenger.Attempted)
	require.Len(t, log.Records(logging.WARNING), 1)
}

func TestProcessorAddsMessageIDToContext(t *testing.T) {
	var entries []logging.LogEntry
	service := &stubHandleMessage{
		run: func(ctx context.Context, input handlemessage.Input) (handlemessage.Result, error) {
			entries = logging.EntriesFrom(ctx)
			return handlemessage.Result{Intent: intent.Unknown{}}, nil
		},
	}
	processor, _, _ := newProcessor(service, 0)

	processor.Process(context.Background(), inbound.Message{ID: "m1", UserID: "u1"})

	require.Equal(t, []logging.LogEntry{logging.Entry("messageID", "m1")}, entries)
}

type recordingProcessor struct {
	messages []inbound.Message
	release  chan struct{}
	lock     sync.Mutex
}

func (p *recordingProcessor) Process(ctx context.Context, m inbound.Message) {
	if p.release != nil {
		<-p.release
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	p.messages = append(p.messages, m)
}

func (p *recordingProcessor) Messages() []inbound.Message {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]inbound.Message(nil), p.messages...)
}

func TestDispatchAssignsIDAndDrainsOnClose(t *testing.T) {
	// Setup ---
	processor := &recordingProcessor{}
	dispatcher := New(logging.NewFakeLogger(), processor, func() time.Time { return Now })

	// Exercise ---
	err1 := dispatcher.Dispatch(context.Background(), inbound.Message{UserID: "u1", Text: "list"})
	err2 := dispatcher.Dispatch(context.Background(), inbound.Message{ID: "given", UserID: "u2", Text: "list"})
	closeErr := dispatcher.Close(context.Background())

	// Verify ---
	assert := require.New(t)
	assert.Nil(err1)
	assert.Nil(err2)
	assert.Nil(closeErr)
	messages := processor.Messages()
	assert.Len(messages, 2)
	ids := map[string]bool{}
	for _, m := range messages {
		assert.NotEmpty(m.ID)
		assert.Equal(Now, m.ReceivedAt)
		ids[m.ID] = true
	}
	assert.True(ids["given"])
	assert.Len(ids, 2)
}

func TestDispatchAfterClose(t *testing.T) {
	processor := &recordingProcessor{}
	dispatcher := New(logging.NewFakeLogger(), processor, func() time.Time { return Now })
	require.Nil(t, dispatcher.Close(context.Background()))

	err := dispatcher.Dispatch(context.Background(), inbound.Message{UserID: "u1"})

	require.ErrorIs(t, err, ErrDispatcherClosed)
	require.Empty(t, processor.Messages())
}

func TestDispatchReturnsBeforeProcessing(t *testing.T) {
	// Setup ---
	processor := &recordingProcessor{release: make(chan struct{})}
	dispatcher := New(logging.NewFakeLogger(), processor, func() time.Time { return Now })

	// Exercise ---
	err := dispatcher.Dispatch(context.Background(), inbound.Message{UserID: "u1"})
	require.Nil(t, err)
	require.Empty(t, processor.Messages())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	closeErr := dispatcher.Close(ctx)

	// Verify ---
	require.True(t, errors.Is(closeErr, context.DeadlineExceeded))
	close(processor.release)
	require.Nil(t, dispatcher.Close(context.Background()))
	require.Len(t, processor.Messages(), 1)
}

func TestDispatchedContextOutlivesRequest(t *testing.T) {
	var processed context.Context
	done := make(chan struct{})
	processor := processorFunc(func(ctx context.Context, m inbound.Message) {
		processed = ctx
		close(done)
	})
	dispatcher := New(logging.NewFakeLogger(), processor, func() time.Time { return Now })
	requestCtx, cancel := context.WithCancel(logging.WithEntries(context.Background(), logging.Entry("path", "/webhook")))

	require.Nil(t, dispatcher.Dispatch(requestCtx, inbound.Message{UserID: "u1"}))
	cancel()
	<-done

	require.Nil(t, processed.Err())
	require.Equal(t, []logging.LogEntry{logging.Entry("path", "/webhook")}, logging.EntriesFrom(processed))
}

type processorFunc func(ctx context.Context, m inbound.Message)

func (f processorFunc) Process(ctx context.Context, m inbound.Message) {
	f(ctx, m)
}
