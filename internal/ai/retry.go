package ai

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/api/googleapi"
)

// executeWithRetry executes an AI operation with retry logic and exponential
// backoff.
func (c *Client) executeWithRetry(ctx context.Context, operation string, fn func() (completion, error)) (completion, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", c.maxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			// Use crypto/rand for secure random jitter
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return completion{}, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				c.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on certain errors (auth, invalid input, etc.)
		if !isRetryableError(err) {
			c.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	c.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", c.maxRetries+1)

	return completion{}, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, c.maxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// A canceled or expired context never recovers by retrying.
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Check for network errors (timeouts, connection issues)
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	// Anthropic API errors carry the HTTP status
	var anthropicErr *anthropic.Error
	if stderrors.As(err, &anthropicErr) {
		return isRetryableStatus(anthropicErr.StatusCode)
	}

	// OpenAI-compatible endpoints are called over plain HTTP
	var statusErr *httpStatusError
	if stderrors.As(err, &statusErr) {
		return isRetryableStatus(statusErr.StatusCode)
	}

	// Check for Google API errors (HTTP status codes)
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}

	return false
}

// isRetryableStatus reports whether an HTTP status is transient.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
