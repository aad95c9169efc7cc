// Package catalog is the data-access layer between the HTTP surface and the
// upstream API. Every read races the live call against a timeout and falls
// back to bundled data on any failure, so callers always receive a result
// shaped the same way regardless of which source served it.
package catalog

import (
	"context"
	"log"
	"time"
)

// withFallback runs the live producer under a deadline. On any failure,
// including timeout, the fallback producer supplies the result and the live
// error is only logged; an error escapes solely when the fallback itself
// fails. The degraded flag says which source answered.
func withFallback[T any](ctx context.Context, timeout time.Duration, what string, live func(context.Context) (T, error), fallback func() (T, error)) (T, bool, error) {
	liveCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := live(liveCtx)
	if err == nil {
		return v, false, nil
	}
	log.Printf("[catalog] %s: live fetch failed, using fallback: %v", what, err)

	fb, fbErr := fallback()
	if fbErr != nil {
		var zero T
		return zero, true, fbErr
	}
	return fb, true, nil
}
