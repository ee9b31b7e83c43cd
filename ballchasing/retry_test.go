package ballchasing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/ballchaser/internal/backoff"
)

// testSchedule keeps retry delays short enough for tests.
func testSchedule() backoff.Schedule {
	return backoff.Schedule{
		Initial:    time.Millisecond,
		Max:        10 * time.Millisecond,
		Multiplier: 2.0,
	}
}

func stubResponse(statusCode int) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader("{}")),
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("success on first attempt", func(t *testing.T) {
		attempts := 0
		resp, err := retryWithBackoff(ctx, func() (*http.Response, error) {
			attempts++
			return stubResponse(http.StatusOK), nil
		}, isRateLimited, 5, testSchedule())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries until success", func(t *testing.T) {
		attempts := 0
		resp, err := retryWithBackoff(ctx, func() (*http.Response, error) {
			attempts++
			if attempts < 3 {
				return stubResponse(http.StatusTooManyRequests), nil
			}
			return stubResponse(http.StatusOK), nil
		}, isRateLimited, 5, testSchedule())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 3, attempts)
	})

	t.Run("exhausts attempts and returns last response", func(t *testing.T) {
		attempts := 0
		resp, err := retryWithBackoff(ctx, func() (*http.Response, error) {
			attempts++
			return stubResponse(http.StatusTooManyRequests), nil
		}, isRateLimited, 4, testSchedule())
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, 4, attempts)
	})

	t.Run("single attempt when maxTries is one", func(t *testing.T) {
		attempts := 0
		resp, err := retryWithBackoff(ctx, func() (*http.Response, error) {
			attempts++
			return stubResponse(http.StatusTooManyRequests), nil
		}, isRateLimited, 1, testSchedule())
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, 1, attempts)
	})

	t.Run("non-retryable status returned immediately", func(t *testing.T) {
		attempts := 0
		resp, err := retryWithBackoff(ctx, func() (*http.Response, error) {
			attempts++
			return stubResponse(http.StatusInternalServerError), nil
		}, isRateLimited, 5, testSchedule())
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, 1, attempts)
	})

	t.Run("transport error not retried", func(t *testing.T) {
		attempts := 0
		_, err := retryWithBackoff(ctx, func() (*http.Response, error) {
			attempts++
			return nil, io.ErrUnexpectedEOF
		}, isRateLimited, 5, testSchedule())
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		attempts := 0
		_, err := retryWithBackoff(cancelCtx, func() (*http.Response, error) {
			attempts++
			cancel()
			return stubResponse(http.StatusTooManyRequests), nil
		}, isRateLimited, 5, testSchedule())
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})
}

func TestClientBackoffRecovery(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"chaser": true, "type": "gold"})
	}))
	defer server.Close()

	client, err := NewClient("test-token", zerolog.Nop(), WithBaseURL(server.URL), WithBackoff(5))
	require.NoError(t, err)
	client.schedule = testSchedule()

	status, err := client.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gold", status.Patronage)
	assert.Equal(t, 3, attempts)
}

func TestClientBackoffExhausted(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
	}))
	defer server.Close()

	client, err := NewClient("test-token", zerolog.Nop(), WithBaseURL(server.URL), WithBackoff(3))
	require.NoError(t, err)
	client.schedule = testSchedule()

	_, err = client.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, 3, attempts)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "rate limit exceeded", apiErr.Message)
}

func TestClientBackoffDisabled(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient("test-token", zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, 1, attempts)
}

func TestClientBackoffDelaysGrow(t *testing.T) {
	var stamps []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stamps = append(stamps, time.Now())
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient("test-token", zerolog.Nop(), WithBaseURL(server.URL), WithBackoff(3))
	require.NoError(t, err)
	client.schedule = backoff.Schedule{
		Initial:    20 * time.Millisecond,
		Max:        time.Second,
		Multiplier: 2.0,
	}

	_, err = client.Ping(context.Background())
	require.Error(t, err)
	require.Len(t, stamps, 3)

	first := stamps[1].Sub(stamps[0])
	second := stamps[2].Sub(stamps[1])
	assert.GreaterOrEqual(t, first, 20*time.Millisecond)
	assert.GreaterOrEqual(t, second, 40*time.Millisecond)
	assert.Greater(t, second, first)
}
