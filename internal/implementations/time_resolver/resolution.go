package timeresolver

import (
	"fmt"
	"remindbot/internal/core/domain/reminder"
	"time"

	"github.com/golang-module/carbon/v2"
)

var (
	defaultAt        = at{hour: 9}
	defaultEveningAt = at{hour: 20}
)

type resolution struct {
	reference carbon.Carbon
	timezone  string
	at        carbon.Carbon
}

func (r *resolution) visitAbsolute(a absolute) error {
	r.at = a.value
	return nil
}

func (r *resolution) visitRelative(rel relative) error {
	at := r.reference
	for _, a := range rel.amounts {
		switch a.p {
		case second:
			at = at.AddSeconds(a.n)
		case minute:
			at = at.AddMinutes(a.n)
		case hour:
			at = at.AddHours(a.n)
		case day:
			at = at.AddDays(a.n)
		case week:
			at = at.AddWeeks(a.n)
		case month:
			at = at.AddMonths(a.n)
		default:
			return fmt.Errorf("relative period is invalid, %w", reminder.ErrTimeNotResolved)
		}
	}
	if rel.at != nil {
		at = at.SetTimeMicro(rel.at.hour, rel.at.minute, 0, 0)
	}
	r.at = at
	return nil
}

func (r *resolution) visitAt(a at) error {
	at := r.reference.SetTimeMicro(a.hour, a.minute, 0, 0)
	if at.Lte(r.reference) {
		at = at.AddDay()
	}
	r.at = at
	return nil
}

func (r *resolution) visitOn(o on) error {
	clock := defaultAt
	if o.evening {
		clock = defaultEveningAt
	}
	if o.at != nil {
		clock = *o.at
	}

	switch {
	case o.date != nil:
		d := o.date
		at := carbon.CreateFromDateTime(d.year, d.month, d.day, clock.hour, clock.minute, 0, r.timezone)
		if at.Error != nil || at.Month() != d.month || at.Day() != d.day {
			return fmt.Errorf("calendar date is invalid, %w", reminder.ErrTimeNotResolved)
		}
		if !d.explicitYear && at.Lte(r.reference) {
			at = at.AddYear()
		}
		r.at = at
	case o.weekday != nil:
		current := r.reference.Carbon2Time().Weekday()
		days := (int(*o.weekday) - int(current) + 7) % 7
		at := r.reference.AddDays(days).SetTimeMicro(clock.hour, clock.minute, 0, 0)
		if at.Lte(r.reference) {
			at = at.AddDays(7)
		}
		r.at = at
	default:
		r.at = r.reference.AddDays(o.offset).SetTimeMicro(clock.hour, clock.minute, 0, 0)
	}
	return nil
}

func resolve(n node, reference time.Time, timezone string) (time.Time, error) {
	ref := carbon.Time2Carbon(reference).SetTimezone(timezone)
	if ref.Error != nil {
		return time.Time{}, fmt.Errorf("invalid timezone '%s': %w", timezone, ref.Error)
	}
	r := &resolution{reference: ref, timezone: timezone}
	if err := n.accept(r); err != nil {
		return time.Time{}, err
	}
	if r.at.Error != nil {
		return time.Time{}, fmt.Errorf("%w: %w", reminder.ErrTimeNotResolved, r.at.Error)
	}
	return r.at.Carbon2Time().UTC(), nil
}
