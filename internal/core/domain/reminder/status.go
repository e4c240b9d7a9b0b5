package reminder

import "errors"

var ErrParseStatus = errors.New("invalid status")

type Status struct {
	v string
}

func (s Status) String() string {
	return s.v
}

func (s Status) IsFinal() bool {
	return s == StatusSent || s == StatusFailed
}

// CanTransitionTo reports whether the delivery state machine allows moving
// from s to next. Statuses never move back to pending.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusSending || next == StatusSent || next == StatusFailed
	case StatusSending:
		return next == StatusSent || next == StatusFailed
	default:
		return false
	}
}

func ParseStatus(value string) (Status, error) {
	switch value {
	case "pending":
		return StatusPending, nil
	case "sending":
		return StatusSending, nil
	case "sent":
		return StatusSent, nil
	case "failed":
		return StatusFailed, nil
	default:
		return StatusUnknown, ErrParseStatus
	}
}

var (
	StatusUnknown = Status{}
	StatusPending = Status{v: "pending"}
	StatusSending = Status{v: "sending"}
	StatusSent    = Status{v: "sent"}
	StatusFailed  = Status{v: "failed"}
)
