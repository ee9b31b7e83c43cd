package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleDelay(t *testing.T) {
	s := Schedule{
		Initial:    100 * time.Millisecond,
		Max:        5 * time.Second,
		Multiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{-1, 100 * time.Millisecond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, s.Delay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestScheduleDelayCapped(t *testing.T) {
	s := Schedule{
		Initial:    time.Second,
		Max:        5 * time.Second,
		Multiplier: 2.0,
	}

	assert.Equal(t, 5*time.Second, s.Delay(10))
	// Large attempt numbers must not overflow into negative durations.
	assert.Equal(t, 5*time.Second, s.Delay(1000))
}

func TestScheduleDelayIncreasing(t *testing.T) {
	s := Default()
	prev := time.Duration(0)
	for attempt := 0; attempt < 5; attempt++ {
		d := s.Delay(attempt)
		assert.Greater(t, d, prev, "delay should grow until the cap")
		prev = d
	}
}

func TestScheduleDelayJitterBounds(t *testing.T) {
	s := Schedule{
		Initial:    100 * time.Millisecond,
		Max:        5 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.5,
	}

	for i := 0; i < 100; i++ {
		d := s.Delay(1)
		assert.GreaterOrEqual(t, d, 200*time.Millisecond)
		assert.LessOrEqual(t, d, 300*time.Millisecond)
	}

	// Out-of-range jitter values are clamped rather than rejected.
	s.Jitter = 7
	d := s.Delay(0)
	assert.GreaterOrEqual(t, d, 100*time.Millisecond)
	assert.LessOrEqual(t, d, 200*time.Millisecond)
}
