package onboarding

import (
	"context"
	"fmt"

	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
)

// Bootstrap resolves where the caller enters the flow. A pending auth
// state defers without side effects so the caller can retry once auth
// settles. Any collaborator failure is fatal for this flow instance.
func (c *Controller) Bootstrap(ctx context.Context, auth Auth) (entry Entry, err error) {
	c.mu.Lock()
	if c.phase != PhaseIdle && c.phase != PhaseDeferred {
		c.mu.Unlock()
		return "", ErrAlreadyStarted
	}
	switch auth.State {
	case AuthPending:
		c.phase = PhaseDeferred
		c.mu.Unlock()
		c.deps.Observer.ObserveBootstrap(string(EntryDeferred))
		return EntryDeferred, nil
	case AuthAnonymous:
		c.phase = PhaseRedirected
		c.redirect = RedirectLogin
		c.mu.Unlock()
		c.deps.Observer.ObserveBootstrap(string(EntryLogin))
		return EntryLogin, nil
	}
	c.phase = PhaseLoading
	c.userID = auth.UserID
	c.mu.Unlock()

	if err := c.acquire(); err != nil {
		return "", err
	}
	defer c.release()
	defer c.recoverUnexpected(&err)

	log := c.log.With("user_id", auth.UserID)

	status, err := c.deps.Profiler.CheckStatus(ctx)
	if err != nil {
		c.deps.Observer.ObserveBootstrap("failed")
		return "", c.fail(KindBootstrap, err)
	}
	if status.Completed {
		c.mu.Lock()
		c.phase = PhaseRedirected
		c.redirect = RedirectDashboard
		c.mu.Unlock()
		log.Info("profiling already completed; redirecting")
		c.deps.Observer.ObserveBootstrap(string(EntryDashboard))
		return EntryDashboard, nil
	}

	if sid := status.ActiveSessionID(); sid != "" {
		entry, err = c.resume(ctx, sid)
	} else {
		entry, err = c.start(ctx)
	}
	if err != nil {
		c.deps.Observer.ObserveBootstrap("failed")
		return "", c.fail(KindBootstrap, err)
	}
	log.Info("onboarding bootstrapped", "entry", entry, "session_id", c.sessionID())
	c.deps.Observer.ObserveBootstrap(string(entry))
	return entry, nil
}

func (c *Controller) resume(ctx context.Context, sessionID string) (Entry, error) {
	questions, err := c.fetchQuestions(ctx)
	if err != nil {
		return "", err
	}
	progress, err := c.deps.Profiler.GetProgress(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load progress: %w", err)
	}
	if progress.SessionID == "" {
		progress.SessionID = sessionID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &profiling.Session{
		SessionID: sessionID,
		Status:    profiling.SessionActive,
		Progress:  progress,
	}
	c.questions = questions
	c.index = resumeIndex(progress.CurrentQuestion, len(questions))
	c.section = SectionWelcome
	c.phase = PhaseReady
	return EntryResumed, nil
}

func (c *Controller) start(ctx context.Context) (Entry, error) {
	session, err := c.deps.Profiler.StartSession(ctx)
	if err != nil {
		return "", err
	}
	questions, err := c.fetchQuestions(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &session
	c.questions = questions
	c.index = 0
	c.section = SectionWelcome
	c.phase = PhaseReady
	return EntryStarted, nil
}

func (c *Controller) fetchQuestions(ctx context.Context) ([]profiling.Question, error) {
	questions, err := c.deps.Profiler.GetQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrEmptyAssessment
	}
	return questions, nil
}
