// Package sigctx ties process lifetime to OS signals.
package sigctx

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// NotifyContext is done on SIGINT, SIGTERM or SIGQUIT.
func NotifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}

// ShutdownContext bounds graceful shutdown after the signal context is done.
// It is detached from ctx, so it outlives the cancellation it follows.
func ShutdownContext(
	ctx context.Context, timeout time.Duration,
) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
