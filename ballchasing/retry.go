package ballchasing

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/s0up4200/ballchaser/internal/backoff"
)

// attemptFunc performs one HTTP exchange.
type attemptFunc func() (*http.Response, error)

// retryWithBackoff runs call up to maxTries times, sleeping per schedule
// between attempts while retryable reports the response as transient.
// Transport errors and non-retryable responses are returned immediately;
// when attempts run out the last retryable response is returned so the
// caller can map its status. The retry index starts at 0 for the first
// delay.
func retryWithBackoff(ctx context.Context, call attemptFunc, retryable func(*http.Response) bool, maxTries int, schedule backoff.Schedule) (*http.Response, error) {
	var resp *http.Response
	for attempt := 0; attempt < maxTries; attempt++ {
		var err error
		resp, err = call()
		if err != nil {
			return nil, err
		}
		if !retryable(resp) || attempt == maxTries-1 {
			return resp, nil
		}

		// Drain so the transport can reuse the connection.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := wait(ctx, schedule.Delay(attempt)); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// wait sleeps for d unless the context is cancelled first.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRateLimited is the one retryable outcome: HTTP 429.
func isRateLimited(resp *http.Response) bool {
	return resp.StatusCode == http.StatusTooManyRequests
}
