package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	c "remindbot/internal/core/domain/common"
)

var ErrUnknownKind = errors.New("unknown intent kind")

// Intent is one of AddReminder, ListReminders, DeleteReminder, EditReminder
// or Unknown. Consumers handle every variant through Visitor.
type Intent interface {
	Accept(ctx context.Context, v Visitor) error
	Kind() Kind
}

type Visitor interface {
	VisitAddReminder(ctx context.Context, i AddReminder) error
	VisitListReminders(ctx context.Context, i ListReminders) error
	VisitDeleteReminder(ctx context.Context, i DeleteReminder) error
	VisitEditReminder(ctx context.Context, i EditReminder) error
	VisitUnknown(ctx context.Context, i Unknown) error
}

type Kind string

const (
	KindAddReminder    Kind = "ADD_REMINDER"
	KindListReminders  Kind = "LIST_REMINDERS"
	KindDeleteReminder Kind = "DELETE_REMINDER"
	KindEditReminder   Kind = "EDIT_REMINDER"
	KindUnknown        Kind = "UNKNOWN"
)

type AddReminder struct {
	Task c.Optional[string]
	Time c.Optional[string]
}

func (i AddReminder) Accept(ctx context.Context, v Visitor) error {
	return v.VisitAddReminder(ctx, i)
}

func (i AddReminder) Kind() Kind { return KindAddReminder }

type ListReminders struct{}

func (i ListReminders) Accept(ctx context.Context, v Visitor) error {
	return v.VisitListReminders(ctx, i)
}

func (i ListReminders) Kind() Kind { return KindListReminders }

type DeleteReminder struct {
	Target c.Optional[string]
}

func (i DeleteReminder) Accept(ctx context.Context, v Visitor) error {
	return v.VisitDeleteReminder(ctx, i)
}

func (i DeleteReminder) Kind() Kind { return KindDeleteReminder }

type Updates struct {
	Task c.Optional[string]
	Time c.Optional[string]
}

func (u Updates) IsEmpty() bool {
	return !u.Task.IsPresent && !u.Time.IsPresent
}

type EditReminder struct {
	Target  c.Optional[string]
	Updates Updates
}

func (i EditReminder) Accept(ctx context.Context, v Visitor) error {
	return v.VisitEditReminder(ctx, i)
}

func (i EditReminder) Kind() Kind { return KindEditReminder }

// Unknown carries the classifier failure when there was one.
type Unknown struct {
	Err error
}

func (i Unknown) Accept(ctx context.Context, v Visitor) error {
	return v.VisitUnknown(ctx, i)
}

func (i Unknown) Kind() Kind { return KindUnknown }

type rawUpdates struct {
	Task *string `json:"task"`
	Time *string `json:"time"`
}

type rawData struct {
	Task    *string     `json:"task"`
	Time    *string     `json:"time"`
	Target  *string     `json:"target"`
	Updates *rawUpdates `json:"updates"`
}

type rawIntent struct {
	Intent Kind     `json:"intent"`
	Data   *rawData `json:"data"`
}

// Decode reads the classifier JSON shape
// {"intent": "...", "data": {"task", "time", "target", "updates": {"task", "time"}}}.
// Blank strings are treated as absent.
func Decode(data []byte) (Intent, error) {
	raw := rawIntent{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not decode intent: %w", err)
	}
	d := rawData{}
	if raw.Data != nil {
		d = *raw.Data
	}

	switch raw.Intent {
	case KindAddReminder:
		return AddReminder{Task: text(d.Task), Time: text(d.Time)}, nil
	case KindListReminders:
		return ListReminders{}, nil
	case KindDeleteReminder:
		return DeleteReminder{Target: text(d.Target)}, nil
	case KindEditReminder:
		edit := EditReminder{Target: text(d.Target)}
		if d.Updates != nil {
			edit.Updates = Updates{Task: text(d.Updates.Task), Time: text(d.Updates.Time)}
		}
		return edit, nil
	case KindUnknown:
		return Unknown{}, nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownKind, raw.Intent)
	}
}

func text(raw *string) c.Optional[string] {
	if raw == nil {
		return c.Optional[string]{}
	}
	return c.OptionalText(*raw)
}

// Classifier extracts an intent from a raw chat message.
type Classifier interface {
	Classify(ctx context.Context, message string) (Intent, error)
}
