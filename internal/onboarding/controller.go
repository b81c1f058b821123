package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/yungbote/neurobridge-onboarding/internal/clients/profiler"
	"github.com/yungbote/neurobridge-onboarding/internal/clients/userprofile"
	domain "github.com/yungbote/neurobridge-onboarding/internal/domain/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
	"github.com/yungbote/neurobridge-onboarding/internal/domain/user"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
	"github.com/yungbote/neurobridge-onboarding/internal/realtime"
)

// UserRefresher reloads the authenticated user's cached record.
type UserRefresher interface {
	Refresh(ctx context.Context, userID uuid.UUID) (*user.User, error)
}

// CompletionRecorder persists how a completion's follow-ups went.
type CompletionRecorder interface {
	Record(ctx context.Context, rec *domain.CompletionRecord) error
}

// Observer receives flow outcomes for metrics.
type Observer interface {
	ObserveBootstrap(entry string)
	ObserveAnswer(status string)
	ObserveCompletion(status string)
	ObserveFollowup(step, status string)
}

type Settings struct {
	NotifySettleDelay time.Duration
	ExitSettleDelay   time.Duration
	SyncTimeout       time.Duration

	// BlueprintTimeout bounds the optional blueprint fetch after completion.
	BlueprintTimeout time.Duration
}

type Deps struct {
	Log      *logger.Logger
	Profiler profiler.Client
	Profiles userprofile.Client
	Notifier realtime.Notifier
	Users    UserRefresher

	// Optional.
	Recorder CompletionRecorder
	Observer Observer
	Settings Settings
	// Sleep waits between follow-up steps; tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (d Deps) validate() error {
	switch {
	case d.Log == nil:
		return errors.New("logger required")
	case d.Profiler == nil:
		return errors.New("profiler client required")
	case d.Profiles == nil:
		return errors.New("user profile client required")
	case d.Notifier == nil:
		return errors.New("notifier required")
	case d.Users == nil:
		return errors.New("user refresher required")
	}
	return nil
}

// Controller drives one onboarding flow instance, the server-side
// counterpart of a single open onboarding page. The profiling service stays
// the source of truth; the controller holds a read-mostly copy for rendering.
type Controller struct {
	deps Deps
	log  *logger.Logger

	// inflight admits one network-bound operation at a time.
	inflight *semaphore.Weighted
	busy     atomic.Bool

	mu        sync.Mutex
	userID    uuid.UUID
	phase     Phase
	section   Section
	redirect  Redirect
	session   *profiling.Session
	questions []profiling.Question
	index     int
	answers   profiling.Answers
	selection string
	result    *profiling.Result
	blueprint *profiling.Blueprint
	flowErr   *FlowError
	followup  *Followup
}

func NewController(deps Deps) (*Controller, error) {
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("onboarding controller: %w", err)
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if deps.Sleep == nil {
		deps.Sleep = sleepCtx
	}
	if deps.Settings.SyncTimeout <= 0 {
		deps.Settings.SyncTimeout = 30 * time.Second
	}
	if deps.Settings.BlueprintTimeout <= 0 {
		deps.Settings.BlueprintTimeout = 10 * time.Second
	}
	return &Controller{
		deps:     deps,
		log:      deps.Log.With("service", "OnboardingController"),
		inflight: semaphore.NewWeighted(1),
		phase:    PhaseIdle,
		section:  SectionWelcome,
		answers:  profiling.Answers{},
	}, nil
}

func (c *Controller) UserID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Snapshot copies the state needed to render the current section.
func (c *Controller) Snapshot() Snapshot {
	busy := c.busy.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Phase:          c.phase,
		Section:        c.section,
		Redirect:       c.redirect,
		Busy:           busy,
		QuestionIndex:  c.index,
		TotalQuestions: len(c.questions),
		Selection:      c.selection,
	}
	if c.session != nil {
		s.SessionID = c.session.SessionID
		p := c.session.Progress
		s.Progress = &p
	}
	if c.index < len(c.questions) {
		q := c.questions[c.index]
		s.Question = &q
		s.PreviousAnswer = c.answers[q.ID]
	}
	if c.result != nil {
		r := *c.result
		s.Result = &r
	}
	if c.blueprint != nil {
		b := *c.blueprint
		s.Blueprint = &b
	}
	if c.flowErr != nil {
		e := *c.flowErr
		s.Error = &e
	}
	return s
}

// Answer returns the locally cached answer for a question, if any.
func (c *Controller) Answer(questionID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.Get(questionID)
}

// Advance performs the user-driven welcome→instructions→assessment steps.
// It never touches the network and never moves backwards.
func (c *Controller) Advance() (Section, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseFailed || c.phase == PhaseRedirected {
		return c.section, ErrFlowUnrecoverable
	}
	switch c.section {
	case SectionWelcome:
		c.section = SectionInstructions
	case SectionInstructions:
		c.section = SectionAssessment
	default:
		return c.section, ErrNoTransition
	}
	return c.section, nil
}

// Followup returns the most recent completion's background follow-up, if any.
func (c *Controller) Followup() *Followup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.followup
}

func (c *Controller) sessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.SessionID
}

func (c *Controller) acquire() error {
	if !c.inflight.TryAcquire(1) {
		return ErrBusy
	}
	c.busy.Store(true)
	return nil
}

func (c *Controller) release() {
	c.busy.Store(false)
	c.inflight.Release(1)
}

// fail records a user-visible error. Fatal kinds also end the flow instance.
func (c *Controller) fail(kind ErrorKind, err error) *FlowError {
	fe := newFlowError(kind, err)
	c.mu.Lock()
	c.flowErr = fe
	if fe.Fatal() {
		c.phase = PhaseFailed
	}
	c.mu.Unlock()
	c.log.Warn("onboarding step failed", "kind", kind, "error", err)
	return fe
}

// recoverUnexpected converts a panic inside a flow step into the generic
// error page state instead of tearing down the caller.
func (c *Controller) recoverUnexpected(errp *error) {
	if rec := recover(); rec != nil {
		*errp = c.fail(KindUnexpected, fmt.Errorf("panic: %v", rec))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopObserver struct{}

func (nopObserver) ObserveBootstrap(string)        {}
func (nopObserver) ObserveAnswer(string)           {}
func (nopObserver) ObserveCompletion(string)       {}
func (nopObserver) ObserveFollowup(string, string) {}
