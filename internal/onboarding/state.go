package onboarding

import (
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
)

// Section is the visible step of the flow. Transitions are strictly forward.
type Section string

const (
	SectionWelcome      Section = "welcome"
	SectionInstructions Section = "instructions"
	SectionAssessment   Section = "assessment"
	SectionResults      Section = "results"
)

// Phase tracks bootstrap/data readiness independently of the visible section.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseDeferred   Phase = "deferred"
	PhaseLoading    Phase = "loading"
	PhaseReady      Phase = "ready"
	PhaseFailed     Phase = "failed"
	PhaseRedirected Phase = "redirected"
)

type Redirect string

const (
	RedirectNone      Redirect = ""
	RedirectLogin     Redirect = "login"
	RedirectDashboard Redirect = "dashboard"
)

type AuthState int

const (
	AuthPending AuthState = iota
	AuthAnonymous
	AuthAuthenticated
)

// Auth is the caller's authentication as known at page entry.
type Auth struct {
	State  AuthState
	UserID uuid.UUID
}

func Authenticated(userID uuid.UUID) Auth {
	if userID == uuid.Nil {
		return Auth{State: AuthAnonymous}
	}
	return Auth{State: AuthAuthenticated, UserID: userID}
}

// Entry is how bootstrap resolved.
type Entry string

const (
	EntryDeferred  Entry = "deferred"
	EntryLogin     Entry = "login"
	EntryDashboard Entry = "dashboard"
	EntryResumed   Entry = "resumed"
	EntryStarted   Entry = "started"
)

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	Phase          Phase                `json:"phase"`
	Section        Section              `json:"section"`
	Redirect       Redirect             `json:"redirect,omitempty"`
	Busy           bool                 `json:"busy"`
	SessionID      string               `json:"session_id,omitempty"`
	Progress       *profiling.Progress  `json:"progress,omitempty"`
	QuestionIndex  int                  `json:"question_index"`
	TotalQuestions int                  `json:"total_questions"`
	Question       *profiling.Question  `json:"question,omitempty"`
	PreviousAnswer string               `json:"previous_answer,omitempty"`
	Selection      string               `json:"selection,omitempty"`
	Result         *profiling.Result    `json:"result,omitempty"`
	Blueprint      *profiling.Blueprint `json:"blueprint,omitempty"`
	Error          *FlowError           `json:"error,omitempty"`
}

// resumeIndex maps the service's 1-based current question onto a 0-based
// pointer, clamped into the locally fetched question set.
func resumeIndex(currentQuestion, total int) int {
	if total <= 0 {
		return 0
	}
	idx := currentQuestion - 1
	if idx > total-1 {
		idx = total - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
