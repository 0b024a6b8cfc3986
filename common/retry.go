package common

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Retry runs action up to maxAttempts times, sleeping delay between failures.
func Retry[T any](action func() (T, error), maxAttempts int, delay time.Duration) (T, error) {
	var zero T
	var lastErr error
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := action()
		if err == nil {
			return result, nil
		}
		lastErr = err
		log.WithError(err).
			WithField("attempt", attempt).
			WithField("max_attempts", maxAttempts).
			Warn("[RETRY] Attempt failed")
		if attempt < maxAttempts {
			time.Sleep(delay)
		}
	}
	return zero, &RetriesExhaustedError{Attempts: maxAttempts, LastErr: lastErr}
}

// RetryForever runs action until it succeeds. It only returns on success.
func RetryForever[T any](action func() (T, error), delay time.Duration) T {
	for attempt := 1; ; attempt++ {
		result, err := action()
		if err == nil {
			return result
		}
		log.WithError(err).
			WithField("attempt", attempt).
			Warn("[RETRY] Attempt failed, retrying")
		time.Sleep(delay)
	}
}
