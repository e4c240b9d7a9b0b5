package twiliomessenger

import (
	"context"
	"errors"
	"fmt"
	"remindbot/internal/core/domain/reminder"
	"strings"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsAppPrefix = "whatsapp:"

var ErrSenderNotConfigured = errors.New("twilio sender WhatsApp number is not configured")

var ErrInvalidRecipient = errors.New("recipient number missing or invalid")

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioMessenger sends WhatsApp messages through the Twilio REST API.
type TwilioMessenger struct {
	api  messageCreator
	from string
}

func New(accountSID, authToken, fromWhatsApp string) *TwilioMessenger {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken})
	return &TwilioMessenger{api: client.Api, from: fromWhatsApp}
}

func (m *TwilioMessenger) Deliver(ctx context.Context, userID reminder.UserID, text string) error {
	sender := NormalizeWhatsAppAddress(m.from)
	if sender == "" {
		return ErrSenderNotConfigured
	}
	recipient := NormalizeWhatsAppAddress(string(userID))
	if recipient == "" {
		return ErrInvalidRecipient
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(text)

	// The REST client does not take a context, the call is abandoned when
	// ctx is done.
	done := make(chan error, 1)
	go func() {
		_, err := m.api.CreateMessage(params)
		done <- err
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("twilio send message error: %w", err)
		}
		return nil
	}
}

func NormalizeWhatsAppAddress(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, whatsAppPrefix) {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "+") {
		return whatsAppPrefix + trimmed
	}
	return whatsAppPrefix + "+" + trimmed
}

// UserIDFromAddress turns an inbound "whatsapp:+62..." sender into the user
// id used for storage.
func UserIDFromAddress(address string) reminder.UserID {
	return reminder.UserID(strings.TrimPrefix(strings.TrimSpace(address), whatsAppPrefix))
}
