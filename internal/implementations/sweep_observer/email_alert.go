package sweepobserver

import (
	"context"
	"fmt"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/sweep"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const SEND_TIMEOUT = 10 * time.Second

type emailClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailAlert e-mails the operator when a sweep finishes with errors.
// Sweeps without errors are ignored.
type EmailAlert struct {
	log    logging.Logger
	client emailClient
	// This address must be verified with Amazon SES.
	sender    string
	recipient string
	timeout   time.Duration
}

func NewEmailAlert(log logging.Logger, awsConfig aws.Config, sender, recipient string) *EmailAlert {
	return &EmailAlert{
		log:       log,
		client:    ses.NewFromConfig(awsConfig),
		sender:    sender,
		recipient: recipient,
		timeout:   SEND_TIMEOUT,
	}
}

func (a *EmailAlert) SweepFinished(ctx context.Context, s sweep.Summary) error {
	if !s.HasErrors() {
		return nil
	}

	subject := fmt.Sprintf("Reminder sweep finished with %d error(s)", s.Errored)
	body := alertBody(s)
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	_, err := a.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(a.sender),
		Destination: &types.Destination{
			CcAddresses: []string{},
			ToAddresses: []string{a.recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body:    &types.Body{Text: &types.Content{Data: aws.String(body)}},
		},
	})
	if err != nil {
		return fmt.Errorf("could not send sweep alert: %w", err)
	}
	a.log.Info(ctx, "Sweep alert sent.", logging.Entry("errors", s.Errored), logging.Entry("recipient", a.recipient))
	return nil
}

func alertBody(s sweep.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Started: %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Finished: %s\n", s.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Due reminders: %d\n", s.Total)
	fmt.Fprintf(&b, "Processed: %d\n", s.Processed)
	fmt.Fprintf(&b, "Skipped: %d\n", s.Skipped)
	fmt.Fprintf(&b, "Delivered: %d\n", s.Delivered)
	fmt.Fprintf(&b, "Delivery failures: %d\n", s.DeliveryFailures)
	fmt.Fprintf(&b, "Status update failures: %d\n", s.StatusUpdateFailures)
	return b.String()
}
