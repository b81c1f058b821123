package onboarding

import (
	"context"
	"strings"

	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
)

// SubmitOutcome reports what a successful submission led to.
type SubmitOutcome struct {
	Section       Section             `json:"section"`
	QuestionIndex int                 `json:"question_index"`
	Progress      *profiling.Progress `json:"progress,omitempty"`
	Result        *profiling.Result   `json:"result,omitempty"`
	Followup      *Followup           `json:"-"`
}

// SubmitAnswer sends the answer for the live question. The last answer
// hands off to completion. A concurrent call is rejected with ErrBusy
// before any network traffic.
func (c *Controller) SubmitAnswer(ctx context.Context, questionID, value string) (out SubmitOutcome, err error) {
	questionID = strings.TrimSpace(questionID)

	if c.sessionID() == "" {
		return SubmitOutcome{}, ErrNoSession
	}
	if err := c.acquire(); err != nil {
		c.deps.Observer.ObserveAnswer("busy")
		return SubmitOutcome{}, err
	}
	defer c.release()
	defer c.recoverUnexpected(&err)

	c.mu.Lock()
	if c.phase != PhaseReady {
		c.mu.Unlock()
		return SubmitOutcome{}, ErrFlowUnrecoverable
	}
	if c.section != SectionAssessment {
		c.mu.Unlock()
		return SubmitOutcome{}, ErrWrongSection
	}
	if c.index >= len(c.questions) {
		c.mu.Unlock()
		return SubmitOutcome{}, ErrStaleQuestion
	}
	q := c.questions[c.index]
	if q.ID != questionID {
		c.mu.Unlock()
		return SubmitOutcome{}, ErrStaleQuestion
	}
	opt, ok := q.Option(value)
	if !ok {
		c.mu.Unlock()
		c.deps.Observer.ObserveAnswer("invalid")
		return SubmitOutcome{}, ErrInvalidAnswer
	}
	value = opt.Value
	c.selection = value
	c.flowErr = nil
	sessionID := c.session.SessionID
	c.mu.Unlock()

	progress, err := c.deps.Profiler.SubmitResponse(ctx, sessionID, questionID, value)
	if err != nil {
		c.deps.Observer.ObserveAnswer("failed")
		return SubmitOutcome{}, c.fail(KindSubmission, err)
	}
	c.deps.Observer.ObserveAnswer("ok")

	c.mu.Lock()
	if progress != nil {
		merged := *progress
		if merged.SessionID == "" {
			merged.SessionID = sessionID
		}
		c.session.Progress = merged
	}
	c.answers[questionID] = value
	last := c.index >= len(c.questions)-1
	if !last {
		c.index++
		c.selection = ""
		out = SubmitOutcome{
			Section:       c.section,
			QuestionIndex: c.index,
			Progress:      progressCopy(c.session),
		}
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	return c.complete(ctx, sessionID)
}

func progressCopy(s *profiling.Session) *profiling.Progress {
	if s == nil {
		return nil
	}
	p := s.Progress
	return &p
}
