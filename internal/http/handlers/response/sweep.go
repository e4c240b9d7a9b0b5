package response

import (
	"remindbot/internal/core/domain/sweep"
	"time"
)

type Sweep struct {
	Message              string    `json:"message"`
	StartedAt            time.Time `json:"startedAt"`
	FinishedAt           time.Time `json:"finishedAt"`
	Total                int       `json:"total"`
	Processed            int       `json:"processed"`
	Errors               int       `json:"errors"`
	Skipped              int       `json:"skipped"`
	Delivered            int       `json:"delivered"`
	DeliveryFailures     int       `json:"deliveryFailures"`
	StatusUpdateFailures int       `json:"statusUpdateFailures"`
}

func (s *Sweep) FromDomainType(summary sweep.Summary) {
	s.StartedAt = summary.StartedAt
	s.FinishedAt = summary.FinishedAt
	s.Total = summary.Total
	s.Processed = summary.Processed
	s.Errors = summary.Errored
	s.Skipped = summary.Skipped
	s.Delivered = summary.Delivered
	s.DeliveryFailures = summary.DeliveryFailures
	s.StatusUpdateFailures = summary.StatusUpdateFailures
}
