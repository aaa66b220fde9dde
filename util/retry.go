package util

import (
	"context"
	"log"
	"time"
)

// RetryIfFinishedTooQuickly runs fn until a run lasts at least minDuration,
// giving up after maxAttempts runs. It returns the error of the last run.
// A cancelled context stops further attempts.
func RetryIfFinishedTooQuickly(ctx context.Context, minDuration time.Duration, maxAttempts int, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		started := time.Now()
		err = fn(ctx)
		elapsed := time.Since(started)

		if elapsed >= minDuration || ctx.Err() != nil {
			return err
		}
		if attempt == maxAttempts {
			log.Printf("Reached maximum of %d attempts.", maxAttempts)
			break
		}
		log.Printf("Execution time was %s, below %s threshold. Running again (attempt %d/%d).",
			ShortDuration(elapsed), ShortDuration(minDuration), attempt, maxAttempts)
	}
	return err
}
