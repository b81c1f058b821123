package bus

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
	"github.com/yungbote/neurobridge-onboarding/internal/realtime"
)

func TestRedisBusRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis bus integration tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b, err := NewRedisBus(ctx, logger.Nop(), RedisOptions{Addr: addr, Channel: "test-" + uuid.NewString()})
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	defer b.Close()

	got := make(chan realtime.SSEMessage, 1)
	if err := b.StartForwarder(ctx, func(m realtime.SSEMessage) { got <- m }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	userID := uuid.New()
	if err := b.Publish(ctx, realtime.ProfilingCompletedMessage(userID, "abc123")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case m := <-got:
		if m.Event != realtime.SSEEventProfilingCompleted || m.Channel != realtime.UserChannel(userID) {
			t.Fatalf("unexpected message: %+v", m)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for forwarded message")
	}
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(context.Background(), logger.Nop(), RedisOptions{}); err == nil {
		t.Fatalf("expected error")
	}
}
