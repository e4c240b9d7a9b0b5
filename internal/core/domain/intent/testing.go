package intent

import (
	"context"
	"sync"
)

type FakeClassifier struct {
	Intent     Intent
	Error      error
	Classified []string
	lock       sync.Mutex
}

func NewFakeClassifier(i Intent) *FakeClassifier {
	return &FakeClassifier{Intent: i}
}

func (c *FakeClassifier) Classify(ctx context.Context, message string) (Intent, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.Classified = append(c.Classified, message)
	if c.Error != nil {
		return nil, c.Error
	}
	return c.Intent, nil
}
