package onboarding

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domain "github.com/yungbote/neurobridge-onboarding/internal/domain/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
	"github.com/yungbote/neurobridge-onboarding/internal/realtime"
)

// Aftermath captures the best-effort steps that run after a session has
// been finalized. None of these errors affect the flow.
type Aftermath struct {
	SyncErr    error
	NotifyErr  error
	RefreshErr error
	RecordErr  error
}

// Degraded reports whether finalization succeeded but a secondary effect did not.
func (a Aftermath) Degraded() bool {
	return a.SyncErr != nil || a.NotifyErr != nil || a.RefreshErr != nil || a.RecordErr != nil
}

// Followup is a handle on the detached post-completion work.
type Followup struct {
	SessionID string
	done      chan struct{}
	result    Aftermath
}

func newFollowup(sessionID string) *Followup {
	return &Followup{SessionID: sessionID, done: make(chan struct{})}
}

func (f *Followup) Done() <-chan struct{} { return f.done }

// Wait blocks until the follow-up finishes or ctx ends.
func (f *Followup) Wait(ctx context.Context) (Aftermath, error) {
	select {
	case <-f.done:
		return f.result, nil
	case <-ctx.Done():
		return Aftermath{}, ctx.Err()
	}
}

// complete finalizes the session. It runs with the in-flight permit held.
func (c *Controller) complete(ctx context.Context, sessionID string) (SubmitOutcome, error) {
	result, err := c.deps.Profiler.CompleteSession(ctx, sessionID)
	if err != nil {
		c.deps.Observer.ObserveCompletion("failed")
		return SubmitOutcome{}, c.fail(KindCompletion, err)
	}
	c.deps.Observer.ObserveCompletion("ok")

	fu := newFollowup(sessionID)

	c.mu.Lock()
	if result.UserID == "" {
		result.UserID = c.userID.String()
	}
	r := result
	c.result = &r
	c.section = SectionResults
	c.selection = ""
	c.session.Status = profiling.SessionCompleted
	c.followup = fu
	userID := c.userID
	out := SubmitOutcome{
		Section:       c.section,
		QuestionIndex: c.index,
		Progress:      progressCopy(c.session),
		Result:        &result,
		Followup:      fu,
	}
	c.mu.Unlock()

	c.log.Info("profiling session completed", "session_id", sessionID, "primary_track", result.PrimaryTrack.Key)

	go c.runFollowup(context.WithoutCancel(ctx), fu, userID, result)
	return out, nil
}

// runFollowup syncs the result to the user profile service, broadcasts
// completion once the sync attempt has returned, lets listeners settle,
// refreshes the cached user and writes a ledger row. The blueprint is
// fetched alongside; the follow-up is done when both have finished.
func (c *Controller) runFollowup(ctx context.Context, fu *Followup, userID uuid.UUID, result profiling.Result) {
	var (
		am Aftermath
		g  errgroup.Group
	)
	g.Go(func() error {
		c.fetchBlueprint(ctx, fu.SessionID)
		return nil
	})
	defer func() {
		if rec := recover(); rec != nil {
			c.log.Error("completion follow-up panicked", "session_id", fu.SessionID, "panic", rec)
		}
		_ = g.Wait()
		fu.result = am
		close(fu.done)
	}()
	log := c.log.With("user_id", userID, "session_id", fu.SessionID)

	syncCtx, cancel := context.WithTimeout(ctx, c.deps.Settings.SyncTimeout)
	am.SyncErr = c.deps.Profiles.SyncProfilingResult(syncCtx, profiling.NewSyncPayload(result))
	cancel()
	if am.SyncErr != nil {
		log.Warn("profiling result sync failed", "error", am.SyncErr)
	}
	c.deps.Observer.ObserveFollowup("sync", stepStatus(am.SyncErr))

	am.NotifyErr = c.deps.Notifier.Publish(ctx, realtime.ProfilingCompletedMessage(userID, fu.SessionID))
	if am.NotifyErr != nil {
		log.Warn("profiling-completed broadcast failed", "error", am.NotifyErr)
	}
	c.deps.Observer.ObserveFollowup("notify", stepStatus(am.NotifyErr))

	if err := c.deps.Sleep(ctx, c.deps.Settings.NotifySettleDelay); err != nil {
		am.RefreshErr = err
	} else if _, err := c.deps.Users.Refresh(ctx, userID); err != nil {
		am.RefreshErr = err
	}
	if am.RefreshErr != nil {
		log.Warn("user refresh after completion failed", "error", am.RefreshErr)
	}
	c.deps.Observer.ObserveFollowup("refresh", stepStatus(am.RefreshErr))

	if c.deps.Recorder != nil {
		am.RecordErr = c.deps.Recorder.Record(ctx, completionRecord(userID, result, am))
		if am.RecordErr != nil {
			log.Warn("completion ledger write failed", "error", am.RecordErr)
		}
		c.deps.Observer.ObserveFollowup("record", stepStatus(am.RecordErr))
	}

	if am.Degraded() {
		log.Warn("profiling completed with degraded follow-up")
	} else {
		log.Debug("profiling follow-up finished")
	}
}

// fetchBlueprint loads the optional blueprint after results are showing.
// Failure or timeout leaves it nil.
func (c *Controller) fetchBlueprint(ctx context.Context, sessionID string) {
	defer func() {
		if rec := recover(); rec != nil {
			c.log.Error("blueprint fetch panicked", "session_id", sessionID, "panic", rec)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, c.deps.Settings.BlueprintTimeout)
	defer cancel()

	blueprint, err := c.deps.Profiler.GetBlueprint(ctx, sessionID)
	c.deps.Observer.ObserveFollowup("blueprint", stepStatus(err))
	if err != nil {
		c.log.Warn("blueprint unavailable", "session_id", sessionID, "error", err)
		return
	}
	if blueprint == nil {
		return
	}
	c.mu.Lock()
	if c.session != nil && c.session.SessionID == sessionID {
		b := *blueprint
		c.blueprint = &b
	}
	c.mu.Unlock()
}

func stepStatus(err error) string {
	if err != nil {
		return domain.StepStatusFailed
	}
	return domain.StepStatusOK
}

func completionRecord(userID uuid.UUID, result profiling.Result, am Aftermath) *domain.CompletionRecord {
	rec := &domain.CompletionRecord{
		ID:            uuid.New(),
		UserID:        userID,
		SessionID:     result.SessionID,
		PrimaryTrack:  result.PrimaryTrack.Key,
		SyncStatus:    stepStatus(am.SyncErr),
		Notified:      am.NotifyErr == nil,
		RefreshStatus: stepStatus(am.RefreshErr),
		CompletedAt:   result.CompletedAt,
	}
	if am.SyncErr != nil {
		rec.SyncError = truncate(am.SyncErr.Error(), 512)
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now().UTC()
	}
	if b, err := json.Marshal(profiling.NewSyncPayload(result).Recommendations); err == nil {
		rec.Recommendations = b
	}
	return rec
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

