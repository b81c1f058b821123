package bus

import (
	"context"

	"github.com/yungbote/neurobridge-onboarding/internal/realtime"
)

// Bus fans realtime messages out across API replicas. Publish reaches every
// replica's forwarder, including the publisher's own.
type Bus interface {
	realtime.Notifier
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Ping(ctx context.Context) error
	Close() error
}
