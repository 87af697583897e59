package realtime

import (
	"math/rand"
	"time"
)

// BackoffPolicy controls redial pacing. Jitter spreads simultaneous
// clients out so a server restart does not trigger a reconnection storm.
type BackoffPolicy struct {
	Base        time.Duration
	Max         time.Duration
	Jitter      time.Duration
	MaxAttempts int
}

func DefaultBackoff() BackoffPolicy {
	return BackoffPolicy{
		Base:        500 * time.Millisecond,
		Max:         30 * time.Second,
		Jitter:      500 * time.Millisecond,
		MaxAttempts: 5,
	}
}

// Delay returns min(Base << attempt, Max) plus random jitter.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	delay := p.Max
	if attempt < 62 {
		shifted := p.Base << uint(attempt)
		if shifted > 0 && shifted < p.Max {
			delay = shifted
		}
	}
	if p.Jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(p.Jitter)))
	}
	return delay
}
