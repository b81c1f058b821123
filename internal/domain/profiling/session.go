package profiling

import "strings"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// Progress is the profiling service's authoritative view of how far a
// session has advanced. CurrentQuestion is 1-based.
type Progress struct {
	SessionID              string  `json:"session_id"`
	CurrentQuestion        int     `json:"current_question"`
	TotalQuestions         int     `json:"total_questions"`
	ProgressPercentage     float64 `json:"progress_percentage"`
	EstimatedTimeRemaining int     `json:"estimated_time_remaining"`
}

type Session struct {
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`
	Progress  Progress      `json:"progress"`
}

// Status answers "where is this user in profiling" before any session is touched.
type Status struct {
	Completed        bool      `json:"completed"`
	HasActiveSession bool      `json:"has_active_session"`
	SessionID        string    `json:"session_id,omitempty"`
	Progress         *Progress `json:"progress,omitempty"`
}

// ActiveSessionID returns the resumable session id, or "" when there is none.
func (s Status) ActiveSessionID() string {
	if !s.HasActiveSession {
		return ""
	}
	return strings.TrimSpace(s.SessionID)
}
