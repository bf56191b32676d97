package transport

import (
	"math"
	"time"
)

// maxBackoffExponent caps the shift so the computation cannot overflow a
// Duration even with absurd retry budgets.
const maxBackoffExponent = 32

// backoffDelay computes the exponential backoff before retry attempt
// (0-indexed): base * 2^attempt. The first retry waits exactly the base
// delay, the second twice that, and so on.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt < 0 {
		attempt = 0
	}
	if attempt > maxBackoffExponent {
		attempt = maxBackoffExponent
	}
	d := float64(base) * math.Pow(2, float64(attempt))
	if d > float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}
