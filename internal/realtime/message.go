package realtime

import (
	"strings"

	"github.com/google/uuid"
)

type SSEEvent string

const (
	// SSEEventProfilingCompleted tells every mounted view of a user that the
	// onboarding profiler finished, so cached user state can be refreshed.
	SSEEventProfilingCompleted SSEEvent = "profiling-completed"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

type ProfilingCompleted struct {
	SessionID string `json:"sessionId"`
}

// UserChannel is the per-user channel every SSE client of that user joins.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func ParseUserChannel(channel string) (uuid.UUID, bool) {
	raw, ok := strings.CutPrefix(channel, "user:")
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	return id, err == nil
}

func ProfilingCompletedMessage(userID uuid.UUID, sessionID string) SSEMessage {
	return SSEMessage{
		Channel: UserChannel(userID),
		Event:   SSEEventProfilingCompleted,
		Data:    ProfilingCompleted{SessionID: sessionID},
	}
}
