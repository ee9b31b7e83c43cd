// Package backoff computes retry delays for rate-limited API calls.
package backoff

import (
	"math/rand"
	"time"
)

// Schedule describes an exponential backoff curve: the delay for attempt n
// is Initial * Multiplier^n, capped at Max, with an optional uniform jitter
// fraction added on top.
type Schedule struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// Default returns the schedule used when the caller does not supply one:
// 1s initial delay doubling per attempt, capped at 30s, no jitter.
func Default() Schedule {
	return Schedule{
		Initial:    time.Second,
		Max:        30 * time.Second,
		Multiplier: 2.0,
		Jitter:     0,
	}
}

// Delay returns the delay to sleep before retry number attempt.
// The first retry is attempt 0.
func (s Schedule) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	// Prevent overflow by limiting attempt
	if attempt > 30 {
		attempt = 30
	}

	delay := time.Duration(float64(s.Initial) * pow(s.Multiplier, attempt))
	if delay < 0 || delay > s.Max {
		delay = s.Max
	}

	jitter := clampJitter(s.Jitter)
	if jitter > 0 {
		jitterAmount := time.Duration(float64(delay) * jitter * rand.Float64())
		if delay+jitterAmount > s.Max {
			delay = s.Max
		} else {
			delay += jitterAmount
		}
	}
	return delay
}

// clampJitter ensures jitter is within valid bounds [0, 1].
func clampJitter(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

// pow calculates base^exponent using integer exponentiation.
func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
