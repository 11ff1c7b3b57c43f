package worker

import "time"

const (
	defaultRetryDelay    = time.Second
	defaultBackoffFactor = 2
)

// RetryPolicy shapes the backoff between rebuild attempts. Zero values fall
// back to one second doubling, unbounded unless MaxDelay is set.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the wait before the given attempt, 1-based.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	factor := r.BackoffFactor
	if factor <= 0 {
		factor = defaultBackoffFactor
	}

	delay := float64(r.InitialDelay)
	if delay <= 0 {
		delay = float64(defaultRetryDelay)
	}
	for i := 1; i < attempt; i++ {
		delay *= factor
		if r.MaxDelay > 0 && delay >= float64(r.MaxDelay) {
			return r.MaxDelay
		}
	}

	d := time.Duration(delay)
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = defaultRetryDelay
	}
	return d
}
