package utils

import (
	"context"
)

// GracefulShutdown blocks until the context is cancelled (SIGINT/SIGTERM via
// signal.NotifyContext) and then runs the provided cleanup callbacks in order.
func GracefulShutdown(ctx context.Context, cancel context.CancelFunc, onShutdown ...func()) {
	<-ctx.Done()
	cancel()
	for _, fn := range onShutdown {
		fn()
	}
}
