package messagedispatcher

import (
	"context"
	"errors"
	"fmt"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/inbound"
	"remindbot/internal/core/domain/logging"
	ratelimiter "remindbot/internal/core/domain/rate_limiter"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/domain/reply"
	"remindbot/internal/core/services"
	handlemessage "remindbot/internal/core/services/handle_message"
	"time"

	"github.com/getsentry/sentry-go"
)

// Processor handles one inbound message end to end. It never panics and
// never returns an error: failures are logged and, where possible, turned
// into a reply.
type Processor struct {
	log           logging.Logger
	handleMessage services.Service[handlemessage.Input, handlemessage.Result]
	messenger     reminder.Messenger
	composer      reply.Composer
	timeout       time.Duration
}

func NewProcessor(
	log logging.Logger,
	handleMessage services.Service[handlemessage.Input, handlemessage.Result],
	messenger reminder.Messenger,
	composer reply.Composer,
	timeout time.Duration,
) *Processor {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if handleMessage == nil {
		panic(e.NewNilArgumentError("handleMessage"))
	}
	if messenger == nil {
		panic(e.NewNilArgumentError("messenger"))
	}
	if composer == nil {
		panic(e.NewNilArgumentError("composer"))
	}
	return &Processor{
		log:           log,
		handleMessage: handleMessage,
		messenger:     messenger,
		composer:      composer,
		timeout:       timeout,
	}
}

func (p *Processor) Process(ctx context.Context, m inbound.Message) {
	ctx = logging.WithEntries(ctx, logging.Entry("messageID", m.ID))
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Clone().Recover(r)
			logging.Error(ctx, p.log, fmt.Errorf("panic: %v", r), logging.Entry("userID", m.UserID))
			p.reply(ctx, m.UserID, p.composer.UnexpectedError())
		}
	}()

	result, err := p.handleMessage.Run(ctx, handlemessage.Input{Message: m})
	switch {
	case err == nil:
		p.log.Info(
			ctx,
			"Message processed.",
			logging.Entry("userID", m.UserID),
			logging.Entry("intent", result.Intent.Kind()),
		)
	case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
		p.reply(ctx, m.UserID, p.composer.TooManyMessages())
	default:
		p.log.Warning(
			ctx,
			"Message processing finished with an error.",
			logging.Entry("userID", m.UserID),
			logging.Entry("err", err),
		)
	}
}

func (p *Processor) reply(ctx context.Context, userID reminder.UserID, text string) {
	if err := p.messenger.Deliver(ctx, userID, text); err != nil {
		p.log.Error(ctx, "Could not deliver reply.", logging.Entry("userID", userID), logging.Entry("err", err))
	}
}
