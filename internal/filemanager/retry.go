package filemanager

import (
	"context"
	"errors"
	"io/fs"
	"time"
)

const (
	writeAttempts = 3
	writeDelay    = 50 * time.Millisecond
)

// retry runs fn up to attempts times, doubling delay between tries.
// Permission and validation failures are returned at once since another
// attempt cannot fix them.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if permanent(lastErr) {
			return lastErr
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func permanent(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrInvalid) || errors.Is(err, fs.ErrExist)
}
