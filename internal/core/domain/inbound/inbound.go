package inbound

import (
	"context"
	"remindbot/internal/core/domain/reminder"
	"time"
)

// Message is a raw chat message received from a transport webhook.
type Message struct {
	ID         string
	UserID     reminder.UserID
	Text       string
	ReceivedAt time.Time
}

// Dispatcher accepts a message for background handling and returns as soon
// as the message is queued.
type Dispatcher interface {
	Dispatch(ctx context.Context, m Message) error
}
