package sweep

import (
	"context"
	"sync"
)

type FakeObserver struct {
	Observed []Summary
	Error    error
	lock     sync.Mutex
}

func NewFakeObserver() *FakeObserver {
	return &FakeObserver{}
}

func (o *FakeObserver) SweepFinished(ctx context.Context, s Summary) error {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.Observed = append(o.Observed, s)
	return o.Error
}
