package retry

import (
	"context"
	"time"

	retrygo "github.com/avast/retry-go/v4"
)

// Policy bounds how often and how patiently an operation is retried.
type Policy struct {
	MaxAttempts    int           // total attempts, values below 1 mean 1
	InitialBackoff time.Duration // wait before the second attempt, doubled after each retry
	MaxBackoff     time.Duration // cap for the doubled wait, 0 means no cap
	// Timer replaces the wall clock between attempts. Nil uses real time.
	Timer retrygo.Timer
}

// Once is a policy that makes a single attempt.
func Once() Policy {
	return Policy{MaxAttempts: 1}
}

func (p Policy) options(ctx context.Context, retryable func(error) bool) []retrygo.Option {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	opts := []retrygo.Option{
		retrygo.Context(ctx),
		retrygo.Attempts(uint(attempts)),
		retrygo.Delay(p.InitialBackoff),
		retrygo.DelayType(retrygo.BackOffDelay),
		retrygo.LastErrorOnly(true),
	}
	if p.MaxBackoff > 0 {
		opts = append(opts, retrygo.MaxDelay(p.MaxBackoff))
	}
	if retryable != nil {
		opts = append(opts, retrygo.RetryIf(retryable))
	}
	if p.Timer != nil {
		opts = append(opts, retrygo.WithTimer(p.Timer))
	}
	return opts
}

// Do runs fn until it succeeds, returns an error that retryable rejects, or
// the attempts run out. The last error is returned unchanged. If ctx ends
// while waiting between attempts its error is returned instead.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context) error) error {
	return retrygo.Do(func() error {
		return fn(ctx)
	}, p.options(ctx, retryable)...)
}
