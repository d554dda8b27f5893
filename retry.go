package main

import (
	"fmt"
	"log"
	"time"
)

// retrySleep is swapped out in tests.
var retrySleep = time.Sleep

// retryWithBackoff invokes op up to maxAttempts times, sleeping
// baseDelay * 2^attempt between failures. Credential and malformed-response
// errors are returned immediately without further attempts: retrying cannot
// change an invalid key or fix a parse failure. On exhaustion the last error
// is returned wrapped with the attempt count.
func retryWithBackoff(op func() error, maxAttempts int, baseDelay time.Duration) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			log.Printf("✗ Non-retryable %s error: %v", errorKind(err), err)
			return err
		}

		if attempt < maxAttempts {
			backoff := baseDelay * (1 << uint(attempt))
			log.Printf("Retry %d/%d after %v: %v", attempt, maxAttempts, backoff, err)
			retrySleep(backoff)
		}
	}

	return fmt.Errorf("exceeded max retries after %d attempts: %w", maxAttempts, lastErr)
}
