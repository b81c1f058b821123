package realtime

import "context"

// Notifier broadcasts process-wide events. Implementations must not block on
// slow subscribers.
type Notifier interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

// HubNotifier delivers straight into the local hub (single replica).
type HubNotifier struct {
	Hub *SSEHub
}

func (n HubNotifier) Publish(_ context.Context, msg SSEMessage) error {
	n.Hub.Broadcast(msg)
	return nil
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg SSEMessage) error

func (f NotifierFunc) Publish(ctx context.Context, msg SSEMessage) error { return f(ctx, msg) }
