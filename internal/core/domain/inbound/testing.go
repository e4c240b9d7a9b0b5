package inbound

import (
	"context"
	"sync"
)

type FakeDispatcher struct {
	Dispatched []Message
	Error      error
	lock       sync.Mutex
}

func NewFakeDispatcher() *FakeDispatcher {
	return &FakeDispatcher{}
}

func (d *FakeDispatcher) Dispatch(ctx context.Context, m Message) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.Error != nil {
		return d.Error
	}
	d.Dispatched = append(d.Dispatched, m)
	return nil
}
