package shutdown

import (
	"context"
	"os/signal"
	"syscall"
)

// NotifyContext is cancelled on SIGINT/SIGTERM so servers and the walk client
// can drain in-flight collaborator calls before exiting.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
