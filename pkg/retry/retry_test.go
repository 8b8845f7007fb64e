package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

// recordTimer fires at once and remembers every requested wait.
type recordTimer struct {
	waits []time.Duration
}

func (r *recordTimer) After(d time.Duration) <-chan time.Time {
	r.waits = append(r.waits, d)
	c := make(chan time.Time, 1)
	c <- time.Now()
	return c
}

func failTimes(n int, err error, calls *int) func(context.Context) error {
	return func(context.Context) error {
		*calls++
		if *calls <= n {
			return err
		}
		return nil
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	timer := &recordTimer{}
	calls := 0
	p := Policy{MaxAttempts: 4, InitialBackoff: 100 * time.Millisecond, MaxBackoff: 250 * time.Millisecond, Timer: timer}

	err := Do(context.Background(), p, nil, failTimes(3, errTransient, &calls))

	assert.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond}, timer.waits)
}

func TestDo_ReturnsLastErrorWhenExhausted(t *testing.T) {
	timer := &recordTimer{}
	calls := 0
	p := Policy{MaxAttempts: 2, InitialBackoff: time.Millisecond, Timer: timer}

	err := Do(context.Background(), p, nil, failTimes(10, errTransient, &calls))

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 2, calls)
	assert.Len(t, timer.waits, 1)
}

func TestDo_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 5, Timer: &recordTimer{}}
	retryable := func(err error) bool { return errors.Is(err, errTransient) }

	err := Do(context.Background(), p, retryable, failTimes(10, errFatal, &calls))

	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroAttemptsMeansOnce(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{}, nil, failTimes(10, errTransient, &calls))

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestDo_OnceNeverWaits(t *testing.T) {
	timer := &recordTimer{}
	calls := 0
	p := Once()
	p.Timer = timer

	err := Do(context.Background(), p, nil, failTimes(10, errTransient, &calls))

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
	assert.Empty(t, timer.waits)
}

func TestDo_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	p := Policy{MaxAttempts: 3, InitialBackoff: time.Hour}

	err := Do(ctx, p, nil, func(context.Context) error {
		calls++
		cancel()
		return errTransient
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
