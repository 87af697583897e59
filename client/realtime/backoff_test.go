package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelayIsBounded(t *testing.T) {
	policy := BackoffPolicy{
		Base:        100 * time.Millisecond,
		Max:         2 * time.Second,
		Jitter:      50 * time.Millisecond,
		MaxAttempts: 10,
	}

	for attempt := 0; attempt <= policy.MaxAttempts; attempt++ {
		delay := policy.Delay(attempt)
		assert.LessOrEqual(t, delay, policy.Max+policy.Jitter, "attempt %d", attempt)
		assert.GreaterOrEqual(t, delay, policy.Base, "attempt %d", attempt)
	}
}

func TestBackoffDelayGrowsExponentially(t *testing.T) {
	policy := BackoffPolicy{
		Base:        time.Millisecond,
		Max:         8 * time.Millisecond,
		MaxAttempts: 5,
	}

	assert.Equal(t, 1*time.Millisecond, policy.Delay(0))
	assert.Equal(t, 2*time.Millisecond, policy.Delay(1))
	assert.Equal(t, 4*time.Millisecond, policy.Delay(2))
	assert.Equal(t, 8*time.Millisecond, policy.Delay(3))
	assert.Equal(t, 8*time.Millisecond, policy.Delay(10))
	assert.Equal(t, 8*time.Millisecond, policy.Delay(100))
}
