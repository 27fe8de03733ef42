package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// Pinger is the subset of a connection pool needed for PingCheck.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck returns a readiness check probing a database pool.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Wrap(err, "ping")
		}
		return nil
	}
}

// GoroutineCountCheck returns a liveness check failing once the process runs
// more goroutines than the threshold, a cheap goroutine leak detector.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}
