package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast() Config {
	return Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond, Multiplier: 2}
}

/* ───────── backoff ───────── */

func TestConfig_Delay(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Duration(0), cfg.Delay(1))
	assert.Equal(t, time.Second, cfg.Delay(2))
	assert.Equal(t, 2*time.Second, cfg.Delay(3))
	assert.Equal(t, 4*time.Second, cfg.Delay(4))
	assert.Equal(t, 5*time.Second, cfg.Delay(5), "capped")

	flat := Config{InitialDelay: time.Second}
	assert.Equal(t, time.Second, flat.Delay(4), "multiplier below 1 keeps the delay constant")
}

func TestConfig_Jitter(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, Multiplier: 1, JitterFraction: 0.5}
	for i := 0; i < 50; i++ {
		d := cfg.jittered(2)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestPresets(t *testing.T) {
	assert.Equal(t, 3, ProviderConfig().MaxAttempts)
	assert.Greater(t, ColdStartConfig().MaxAttempts, ProviderConfig().MaxAttempts)
	assert.Greater(t, ColdStartConfig().MaxDelay, ProviderConfig().MaxDelay)
}

/* ───────── WithBackoff ───────── */

func TestWithBackoff(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   string
	}{
		{"first try", []error{nil}, 1, ""},
		{"recovers", []error{&HTTPError{StatusCode: 503}, &HTTPError{StatusCode: 429}, nil}, 3, ""},
		{"exhausted", []error{&HTTPError{StatusCode: 500}, &HTTPError{StatusCode: 502}, &HTTPError{StatusCode: 504, Message: "gateway"}}, 3,
			"max retry attempts (3) exceeded: HTTP 504: gateway"},
		{"permanent", []error{&HTTPError{StatusCode: 401, Message: "bad key"}}, 1, "HTTP 401: bad key"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := WithBackoff(context.Background(), fast(), func() error {
				err := tc.errs[calls]
				calls++
				return err
			})
			assert.Equal(t, tc.wantCalls, calls)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantErr, err.Error())
		})
	}
}

func TestWithBackoff_RetryAfterIsCapped(t *testing.T) {
	cfg := fast()
	cfg.MaxAttempts = 2

	start := time.Now()
	calls := 0
	err := WithBackoff(context.Background(), cfg, func() error {
		calls++
		if calls == 1 {
			return &HTTPError{StatusCode: 503, RetryAfter: time.Hour}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 3, InitialDelay: time.Hour}

	calls := 0
	err := WithBackoff(ctx, cfg, func() error {
		calls++
		cancel()
		return &HTTPError{StatusCode: 500}
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "retry aborted")
}

func TestWithBackoff_ZeroAttemptsStillCalls(t *testing.T) {
	calls := 0
	_ = WithBackoff(context.Background(), Config{}, func() error { calls++; return nil })
	assert.Equal(t, 1, calls)
}

/* ───────── classification ───────── */

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), false},
		{&HTTPError{StatusCode: 408}, true},
		{&HTTPError{StatusCode: 429}, true},
		{fmt.Errorf("openai api error: %w", &HTTPError{StatusCode: 503}), true},
		{&HTTPError{StatusCode: 400}, false},
		{&HTTPError{StatusCode: 404}, false},
		{timeoutErr{}, true},
		{&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{syscall.ECONNRESET, true},
		{errors.New("empty summary"), false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsRetryable(tc.err), "%v", tc.err)
	}
}
