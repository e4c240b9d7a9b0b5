package ratelimiting

import (
	"context"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	ratelimiter "remindbot/internal/core/domain/rate_limiter"
	"remindbot/internal/core/services"
)

// Keyed inputs name the counter they are limited by.
type Keyed interface {
	RateLimitKey() string
}

type serviceWithRateLimiting[T Keyed, S any] struct {
	log         logging.Logger
	rateLimiter ratelimiter.RateLimiter
	limit       ratelimiter.Limit
	inner       services.Service[T, S]
}

// WithRateLimiting runs inner only while the input's key stays within
// limit, otherwise it returns ratelimiter.ErrRateLimitExceeded.
func WithRateLimiting[T Keyed, S any](
	log logging.Logger,
	rateLimiter ratelimiter.RateLimiter,
	limit ratelimiter.Limit,
	inner services.Service[T, S],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if rateLimiter == nil {
		panic(e.NewNilArgumentError("rateLimiter"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	if limit.Value == 0 {
		panic(e.NewEmptyArgumentError("limit.Value"))
	}
	return &serviceWithRateLimiting[T, S]{
		log:         log,
		rateLimiter: rateLimiter,
		limit:       limit,
		inner:       inner,
	}
}

func (s *serviceWithRateLimiting[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	key := input.RateLimitKey()
	checked := s.rateLimiter.CheckLimit(ctx, key, s.limit)
	if !checked.IsAllowed {
		s.log.Warning(
			ctx,
			"Rate limit exceeded.",
			logging.Entry("key", key),
			logging.Entry("limit", s.limit.String()),
			logging.Entry("count", checked.Count),
		)
		return result, ratelimiter.ErrRateLimitExceeded
	}
	return s.inner.Run(ctx, input)
}
