package findtargets

import (
	"context"
	"fmt"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/services"
	"strings"
)

type Input struct {
	UserID   reminder.UserID
	Fragment string
}

type Outcome int

const (
	MatchNone Outcome = iota
	MatchOne
	MatchMany
	MatchQueryFailed
)

// Result holds the pending reminders of the user whose task contains the
// fragment. A failed store query is reported through QueryError rather than
// as a Run error so that callers can tell it apart from "nothing matched".
type Result struct {
	Fragment   string
	Candidates []reminder.Reminder
	QueryError error
}

func (r Result) Outcome() Outcome {
	switch {
	case r.QueryError != nil:
		return MatchQueryFailed
	case len(r.Candidates) == 0:
		return MatchNone
	case len(r.Candidates) == 1:
		return MatchOne
	default:
		return MatchMany
	}
}

// Single returns the only candidate or the error describing why there is
// not exactly one.
func (r Result) Single() (reminder.Reminder, error) {
	switch r.Outcome() {
	case MatchOne:
		return r.Candidates[0], nil
	case MatchNone:
		return reminder.Reminder{}, reminder.ErrNoMatchingReminder
	case MatchMany:
		return reminder.Reminder{}, &reminder.AmbiguousTargetError{Target: r.Fragment, Candidates: r.Candidates}
	default:
		return reminder.Reminder{}, fmt.Errorf("%w: %w", reminder.ErrTargetQueryFailed, r.QueryError)
	}
}

type service struct {
	log                logging.Logger
	reminderRepository reminder.Repository
}

func New(
	log logging.Logger,
	reminderRepository reminder.Repository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	return &service{
		log:                log,
		reminderRepository: reminderRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	fragment := strings.TrimSpace(input.Fragment)
	if fragment == "" {
		return result, reminder.ErrTargetRequired
	}
	result.Fragment = fragment

	candidates, err := s.reminderRepository.Read(ctx, reminder.PendingByKeyword(input.UserID, fragment))
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		result.QueryError = err
		return result, nil
	}

	s.log.Info(
		ctx,
		"Reminders matched by keyword.",
		logging.Entry("userID", input.UserID),
		logging.Entry("fragment", fragment),
		logging.Entry("count", len(candidates)),
	)
	result.Candidates = candidates
	return result, nil
}
