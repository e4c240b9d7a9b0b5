package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Interval is a fixed counting window aligned to the Unix epoch.
type Interval struct {
	name   string
	length time.Duration
}

var (
	Minute = Interval{name: "m", length: time.Minute}
	Hour   = Interval{name: "h", length: time.Hour}
)

func (i Interval) Length() time.Duration {
	return i.length
}

// WindowKey names the window of key that contains now.
func (i Interval) WindowKey(key string, now time.Time) string {
	if i.length < time.Second {
		panic("invalid rate limiting interval")
	}
	return fmt.Sprintf("%s::%s%d", key, i.name, now.Unix()/int64(i.length/time.Second))
}

type Limit struct {
	Value    uint16
	Interval Interval
}

func PerMinute(value uint16) Limit {
	return Limit{Value: value, Interval: Minute}
}

func (l Limit) String() string {
	return fmt.Sprintf("%d/%s", l.Value, l.Interval.name)
}

type Result struct {
	IsAllowed bool
	// Count of calls in the current window, zero when it is unknown.
	Count int64
}

func Allowed() Result {
	return Result{IsAllowed: true}
}

func NotAllowed() Result {
	return Result{IsAllowed: false}
}

type RateLimiter interface {
	CheckLimit(ctx context.Context, key string, limit Limit) Result
}
