package application

import "time"

// backoffCap bounds the exponential retry delay at 2^6 = 64 seconds.
const backoffCap = 6

// BackoffDelay returns the delay before retrying after attempt consecutive
// transient failures: min(2^attempt, 64) seconds. It is deterministic (no
// jitter) and monotonically non-decreasing. Used only on failure paths;
// successful cycles sleep the full configured interval instead.
func BackoffDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > backoffCap {
		attempt = backoffCap
	}
	return time.Duration(1<<attempt) * time.Second
}
