package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay(t *testing.T) {
	expected := []time.Duration{
		1 * time.Second,  // 2^0
		2 * time.Second,  // 2^1
		4 * time.Second,  // 2^2
		8 * time.Second,  // 2^3
		16 * time.Second, // 2^4
		32 * time.Second, // 2^5
		64 * time.Second, // 2^6
		64 * time.Second, // capped
		64 * time.Second,
		64 * time.Second,
		64 * time.Second,
	}

	for attempt, want := range expected {
		assert.Equal(t, want, BackoffDelay(attempt), "attempt %d", attempt)
	}
}

func TestBackoffDelay_Monotonic(t *testing.T) {
	prev := BackoffDelay(0)
	for attempt := 1; attempt <= 10; attempt++ {
		delay := BackoffDelay(attempt)
		assert.GreaterOrEqual(t, delay, prev, "attempt %d", attempt)
		prev = delay
	}
}

func TestBackoffDelay_NegativeAttempt(t *testing.T) {
	assert.Equal(t, 1*time.Second, BackoffDelay(-1))
}
