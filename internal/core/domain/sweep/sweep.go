package sweep

import (
	"context"
	"time"
)

// Summary counts what a single delivery sweep did.
//
// Total is the number of due reminders read. Skipped reminders were claimed by
// someone else before this sweep could mark them as sending. Processed is
// Total minus Skipped. Errored counts reminders with a delivery failure, a
// failed final status write, or both.
type Summary struct {
	StartedAt            time.Time `json:"startedAt"`
	FinishedAt           time.Time `json:"finishedAt"`
	Total                int       `json:"total"`
	Processed            int       `json:"processed"`
	Skipped              int       `json:"skipped"`
	Delivered            int       `json:"delivered"`
	DeliveryFailures     int       `json:"deliveryFailures"`
	StatusUpdateFailures int       `json:"statusUpdateFailures"`
	Errored              int       `json:"errors"`
}

func (s Summary) HasErrors() bool {
	return s.Errored > 0
}

// Observer is told about every finished sweep.
type Observer interface {
	SweepFinished(ctx context.Context, s Summary) error
}
