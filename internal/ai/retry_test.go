package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/api/googleapi"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"wrapped deadline", fmt.Errorf("call failed: %w", context.DeadlineExceeded), false},
		{"network timeout", &net.DNSError{Err: "timeout", IsTimeout: true}, true},
		{"anthropic rate limited", &anthropic.Error{StatusCode: http.StatusTooManyRequests}, true},
		{"anthropic bad request", &anthropic.Error{StatusCode: http.StatusBadRequest}, false},
		{"http service unavailable", &httpStatusError{StatusCode: http.StatusServiceUnavailable, Body: "overloaded"}, true},
		{"http gateway timeout", &httpStatusError{StatusCode: http.StatusGatewayTimeout, Body: ""}, true},
		{"http unauthorized", &httpStatusError{StatusCode: http.StatusUnauthorized, Body: "bad key"}, false},
		{"google bad gateway", &googleapi.Error{Code: http.StatusBadGateway}, true},
		{"google not found", &googleapi.Error{Code: http.StatusNotFound}, false},
		{"plain error", stderrors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsRetryableStatus(t *testing.T) {
	retryable := []int{429, 500, 502, 503, 504}
	for _, code := range retryable {
		if !isRetryableStatus(code) {
			t.Errorf("isRetryableStatus(%d) = false, want true", code)
		}
	}
	for _, code := range []int{200, 400, 401, 403, 404, 422} {
		if isRetryableStatus(code) {
			t.Errorf("isRetryableStatus(%d) = true, want false", code)
		}
	}
}

func TestExecuteWithRetrySucceedsFirstTry(t *testing.T) {
	c := &Client{logger: testLogger(), maxRetries: 3}

	calls := 0
	result, err := c.executeWithRetry(context.Background(), "translate", func() (completion, error) {
		calls++
		return completion{text: "ok"}, nil
	})
	if err != nil {
		t.Fatalf("executeWithRetry() error = %v", err)
	}
	if result.text != "ok" {
		t.Errorf("text = %q, want %q", result.text, "ok")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecuteWithRetryRecoversFromTransientError(t *testing.T) {
	c := &Client{logger: testLogger(), maxRetries: 2}

	calls := 0
	result, err := c.executeWithRetry(context.Background(), "tailor", func() (completion, error) {
		calls++
		if calls == 1 {
			return completion{}, &httpStatusError{StatusCode: http.StatusServiceUnavailable, Body: "overloaded"}
		}
		return completion{text: "recovered"}, nil
	})
	if err != nil {
		t.Fatalf("executeWithRetry() error = %v", err)
	}
	if result.text != "recovered" {
		t.Errorf("text = %q, want %q", result.text, "recovered")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestExecuteWithRetryStopsOnNonRetryableError(t *testing.T) {
	c := &Client{logger: testLogger(), maxRetries: 3}

	calls := 0
	_, err := c.executeWithRetry(context.Background(), "suggest", func() (completion, error) {
		calls++
		return completion{}, &httpStatusError{StatusCode: http.StatusUnauthorized, Body: "bad key"}
	})
	if err == nil {
		t.Fatal("executeWithRetry() expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !strings.Contains(err.Error(), "operation 'suggest' failed after 3 retries") {
		t.Errorf("error = %q, want retry summary", err)
	}
	var statusErr *httpStatusError
	if !stderrors.As(err, &statusErr) {
		t.Error("underlying status error not preserved in chain")
	}
}

func TestExecuteWithRetryHonorsContextDuringBackoff(t *testing.T) {
	c := &Client{logger: testLogger(), maxRetries: 5}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	_, err := c.executeWithRetry(ctx, "bio", func() (completion, error) {
		calls++
		return completion{}, &httpStatusError{StatusCode: http.StatusInternalServerError, Body: "flaky"}
	})
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (backoff should outlast the context)", calls)
	}
	// The first backoff is a full second; the deadline must cut it short.
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("returned after %v, want prompt deadline handling", elapsed)
	}
}
