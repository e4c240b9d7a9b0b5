package sweepobserver

import (
	"context"
	"errors"
	"remindbot/internal/core/domain/sweep"
)

type multi []sweep.Observer

// Multi notifies every observer in order. All observers are called even if
// some of them fail.
func Multi(observers ...sweep.Observer) sweep.Observer {
	return multi(observers)
}

func (m multi) SweepFinished(ctx context.Context, s sweep.Summary) error {
	var errs []error
	for _, o := range m {
		if err := o.SweepFinished(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
