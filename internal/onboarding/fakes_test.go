package onboarding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/yungbote/neurobridge-onboarding/internal/domain/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
	"github.com/yungbote/neurobridge-onboarding/internal/domain/user"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
	"github.com/yungbote/neurobridge-onboarding/internal/realtime"
)

// journal records cross-collaborator call order.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	j.entries = append(j.entries, s)
	j.mu.Unlock()
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

type fakeProfiler struct {
	mu sync.Mutex

	status      profiling.Status
	statusErr   error
	startErr    error
	questions   []profiling.Question
	progress    profiling.Progress
	progressErr error
	submitErr   error
	completeErr error
	result      profiling.Result
	blueprint   *profiling.Blueprint

	// submitEntered/submitGate let a test hold SubmitResponse open.
	submitEntered chan struct{}
	submitGate    chan struct{}
	// blueprintGate holds GetBlueprint open until closed or ctx ends.
	blueprintGate chan struct{}

	calls     map[string]int
	submitted []string
}

func newFakeProfiler(n int) *fakeProfiler {
	qs := make([]profiling.Question, n)
	for i := range qs {
		qs[i] = profiling.Question{
			ID:       fmt.Sprintf("q%d", i+1),
			Question: fmt.Sprintf("Question %d", i+1),
			Category: profiling.CategoryWorkStyle,
			Options: []profiling.Option{
				{Value: "a", Text: "A"},
				{Value: "b", Text: "B"},
				{Value: "c", Text: "C"},
			},
		}
	}
	return &fakeProfiler{
		questions: qs,
		calls:     map[string]int{},
		result: profiling.Result{
			UserID:    "user-1",
			SessionID: "abc123",
			Recommendations: []profiling.Recommendation{
				{TrackKey: "builder", TrackName: "Builder", Score: 61, ConfidenceLevel: profiling.ConfidenceMedium},
				{TrackKey: "defender", TrackName: "Defender", Score: 88, ConfidenceLevel: profiling.ConfidenceHigh},
			},
			PrimaryTrack: profiling.PrimaryTrack{Key: "defender", Name: "Defender"},
			CompletedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

func (f *fakeProfiler) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeProfiler) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeProfiler) CheckStatus(context.Context) (profiling.Status, error) {
	f.hit("status")
	return f.status, f.statusErr
}

func (f *fakeProfiler) StartSession(context.Context) (profiling.Session, error) {
	f.hit("start")
	if f.startErr != nil {
		return profiling.Session{}, f.startErr
	}
	return profiling.Session{
		SessionID: "abc123",
		Status:    profiling.SessionActive,
		Progress:  profiling.Progress{SessionID: "abc123", CurrentQuestion: 1, TotalQuestions: len(f.questions)},
	}, nil
}

func (f *fakeProfiler) GetQuestions(context.Context) ([]profiling.Question, error) {
	f.hit("questions")
	return f.questions, nil
}

func (f *fakeProfiler) GetProgress(_ context.Context, sessionID string) (profiling.Progress, error) {
	f.hit("progress")
	return f.progress, f.progressErr
}

func (f *fakeProfiler) SubmitResponse(ctx context.Context, sessionID, questionID, answer string) (*profiling.Progress, error) {
	f.hit("submit")
	if f.submitEntered != nil {
		f.submitEntered <- struct{}{}
	}
	if f.submitGate != nil {
		select {
		case <-f.submitGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.mu.Lock()
	f.submitted = append(f.submitted, questionID+"="+answer)
	done := len(f.submitted)
	f.mu.Unlock()
	total := len(f.questions)
	return &profiling.Progress{
		SessionID:          sessionID,
		CurrentQuestion:    done + 1,
		TotalQuestions:     total,
		ProgressPercentage: float64(done) * 100 / float64(total),
	}, nil
}

func (f *fakeProfiler) CompleteSession(context.Context, string) (profiling.Result, error) {
	f.hit("complete")
	if f.completeErr != nil {
		return profiling.Result{}, f.completeErr
	}
	return f.result, nil
}

func (f *fakeProfiler) GetBlueprint(ctx context.Context, _ string) (*profiling.Blueprint, error) {
	f.hit("blueprint")
	if f.blueprintGate != nil {
		select {
		case <-f.blueprintGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.blueprint, nil
}

type fakeProfiles struct {
	j        *journal
	syncErr  error
	mu       sync.Mutex
	payloads []profiling.SyncPayload
}

func (f *fakeProfiles) SyncProfilingResult(_ context.Context, p profiling.SyncPayload) error {
	f.j.add("sync")
	f.mu.Lock()
	f.payloads = append(f.payloads, p)
	f.mu.Unlock()
	return f.syncErr
}

func (f *fakeProfiles) ReloadCurrentUser(context.Context) (*user.User, error) {
	return &user.User{}, nil
}

type fakeUsers struct {
	j   *journal
	err error
}

func (f *fakeUsers) Refresh(_ context.Context, id uuid.UUID) (*user.User, error) {
	f.j.add("refresh")
	if f.err != nil {
		return nil, f.err
	}
	return &user.User{ID: id, ProfilingComplete: true}, nil
}

type fakeRecorder struct {
	j       *journal
	mu      sync.Mutex
	records []*domain.CompletionRecord
}

func (f *fakeRecorder) Record(_ context.Context, rec *domain.CompletionRecord) error {
	f.j.add("record")
	f.mu.Lock()
	f.records = append(f.records, rec)
	f.mu.Unlock()
	return nil
}

type harness struct {
	j        *journal
	profiler *fakeProfiler
	profiles *fakeProfiles
	users    *fakeUsers
	recorder *fakeRecorder
	messages []realtime.SSEMessage
	mu       sync.Mutex
	deps     Deps
	userID   uuid.UUID
}

func newHarness(questions int) *harness {
	h := &harness{
		j:        &journal{},
		profiler: newFakeProfiler(questions),
		userID:   uuid.New(),
	}
	h.profiles = &fakeProfiles{j: h.j}
	h.users = &fakeUsers{j: h.j}
	h.recorder = &fakeRecorder{j: h.j}
	h.deps = Deps{
		Log:      logger.Nop(),
		Profiler: h.profiler,
		Profiles: h.profiles,
		Notifier: realtime.NotifierFunc(func(_ context.Context, msg realtime.SSEMessage) error {
			h.j.add("notify")
			h.mu.Lock()
			h.messages = append(h.messages, msg)
			h.mu.Unlock()
			return nil
		}),
		Users:    h.users,
		Recorder: h.recorder,
		Settings: Settings{
			NotifySettleDelay: 500 * time.Millisecond,
			ExitSettleDelay:   300 * time.Millisecond,
			SyncTimeout:       time.Second,
		},
		Sleep: func(_ context.Context, d time.Duration) error {
			h.j.add(fmt.Sprintf("sleep %s", d))
			return nil
		},
	}
	return h
}
