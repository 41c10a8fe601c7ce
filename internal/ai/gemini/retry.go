package gemini

import "time"

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 5 * time.Second
	defaultMultiplier  = 2.0
)

// RetryPolicy controls how rate-limited requests are retried. MaxAttempts
// counts all attempts including the first one.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
		Multiplier:  defaultMultiplier,
	}
}

// Normalized returns a copy of the policy with unusable values replaced by
// defaults, so a zero policy still behaves sanely.
func (p RetryPolicy) Normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = defaultMultiplier
	}
	return p
}

// Delay returns the backoff before the retry following the given attempt.
// Attempt numbering starts at 1, so the first retry waits BaseDelay and each
// subsequent one is multiplied.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		delay *= p.Multiplier
	}

	return time.Duration(delay)
}
