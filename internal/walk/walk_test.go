package walk

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
	"github.com/yungbote/neurobridge-onboarding/internal/domain/user"
	"github.com/yungbote/neurobridge-onboarding/internal/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
	"github.com/yungbote/neurobridge-onboarding/internal/realtime"
)

type stubProfiler struct {
	completed  bool
	failSubmit int
	submitted  []string
}

func (s *stubProfiler) CheckStatus(context.Context) (profiling.Status, error) {
	return profiling.Status{Completed: s.completed}, nil
}

func (s *stubProfiler) StartSession(context.Context) (profiling.Session, error) {
	return profiling.Session{SessionID: "abc123", Status: profiling.SessionActive}, nil
}

func (s *stubProfiler) GetQuestions(context.Context) ([]profiling.Question, error) {
	opts := []profiling.Option{{Value: "a", Text: "A"}, {Value: "b", Text: "B"}}
	return []profiling.Question{
		{ID: "q1", Question: "One", Category: profiling.CategoryWorkStyle, Options: opts},
		{ID: "q2", Question: "Two", Category: profiling.CategoryWorkStyle, Options: opts},
	}, nil
}

func (s *stubProfiler) GetProgress(context.Context, string) (profiling.Progress, error) {
	return profiling.Progress{}, nil
}

func (s *stubProfiler) SubmitResponse(_ context.Context, sid, qid, answer string) (*profiling.Progress, error) {
	if s.failSubmit > 0 {
		s.failSubmit--
		return nil, errors.New("profiler unavailable")
	}
	s.submitted = append(s.submitted, qid+"="+answer)
	return &profiling.Progress{SessionID: sid, TotalQuestions: 2}, nil
}

func (s *stubProfiler) CompleteSession(_ context.Context, sid string) (profiling.Result, error) {
	return profiling.Result{
		SessionID:    sid,
		PrimaryTrack: profiling.PrimaryTrack{Key: "defender", Name: "Defender"},
		Recommendations: []profiling.Recommendation{
			{TrackKey: "builder", Score: 40, ConfidenceLevel: profiling.ConfidenceLow},
			{TrackKey: "defender", Score: 90, ConfidenceLevel: profiling.ConfidenceHigh},
		},
	}, nil
}

func (s *stubProfiler) GetBlueprint(context.Context, string) (*profiling.Blueprint, error) {
	return &profiling.Blueprint{ValueStatement: "Protect what matters.", NextSteps: []string{"Start module 1"}}, nil
}

type stubProfiles struct{}

func (stubProfiles) SyncProfilingResult(context.Context, profiling.SyncPayload) error { return nil }

func (stubProfiles) ReloadCurrentUser(context.Context) (*user.User, error) { return &user.User{}, nil }

type stubUsers struct{}

func (stubUsers) Refresh(_ context.Context, id uuid.UUID) (*user.User, error) {
	return &user.User{ID: id, ProfilingComplete: true}, nil
}

type scripted struct {
	answers  []string
	previous []string
	decline  bool
}

func (s *scripted) Confirm(string) (bool, error) { return !s.decline, nil }

func (s *scripted) Choose(q profiling.Question, _, _ int, previous string) (string, error) {
	s.previous = append(s.previous, previous)
	if len(s.answers) == 0 {
		return "", errors.New("out of answers")
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func newWalker(t *testing.T, p *stubProfiler, prompt Prompter) (*Walker, *bytes.Buffer) {
	t.Helper()
	flow, err := onboarding.NewController(onboarding.Deps{
		Log:      logger.Nop(),
		Profiler: p,
		Profiles: stubProfiles{},
		Notifier: realtime.NotifierFunc(func(context.Context, realtime.SSEMessage) error { return nil }),
		Users:    stubUsers{},
		Sleep:    func(context.Context, time.Duration) error { return nil },
	})
	require.NoError(t, err)
	var out bytes.Buffer
	return &Walker{Flow: flow, Prompt: prompt, Out: &out}, &out
}

func TestWalkerCompletesFlow(t *testing.T) {
	p := &stubProfiler{}
	w, _ := newWalker(t, p, &scripted{answers: []string{"a", "b"}})

	report, err := w.Run(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"q1=a", "q2=b"}, p.submitted)
	assert.Equal(t, "abc123", report.SessionID)
	assert.Equal(t, "defender", report.PrimaryTrack)
	require.Len(t, report.Recommendations, 2)
	assert.Equal(t, "defender", report.Recommendations[0].Track)
	assert.False(t, report.Degraded)
	assert.Equal(t, onboarding.RedirectDashboard, report.Redirect)
}

func TestWalkerResubmitsAfterSubmissionFailure(t *testing.T) {
	p := &stubProfiler{failSubmit: 1}
	prompt := &scripted{answers: []string{"b", "b", "a"}}
	w, out := newWalker(t, p, prompt)

	_, err := w.Run(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"q1=b", "q2=a"}, p.submitted)
	// The failed selection is offered again.
	assert.Equal(t, "b", prompt.previous[1])
	assert.NotEmpty(t, out.String())
}

func TestWalkerCompletedUserGoesToDashboard(t *testing.T) {
	w, out := newWalker(t, &stubProfiler{completed: true}, &scripted{})

	report, err := w.Run(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, onboarding.RedirectDashboard, report.Redirect)
	assert.Contains(t, out.String(), "already completed")
}

func TestWalkerDeclineAborts(t *testing.T) {
	w, _ := newWalker(t, &stubProfiler{}, &scripted{decline: true})

	_, err := w.Run(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAborted)
}

func TestReportWrite(t *testing.T) {
	r := Report{
		SessionID:    "abc123",
		PrimaryTrack: "defender",
		TrackName:    "Defender",
		Recommendations: []ReportTrack{
			{Track: "defender", Score: 90, Confidence: "high"},
		},
		Degraded: true,
	}

	var text bytes.Buffer
	require.NoError(t, r.Write(&text, "text"))
	assert.Contains(t, text.String(), "Defender (defender)")
	assert.Contains(t, text.String(), "Saved with warnings")

	var out bytes.Buffer
	require.NoError(t, r.Write(&out, "yaml"))
	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &back))
	assert.Equal(t, "defender", back["primary_track"])
	assert.Equal(t, true, back["degraded"])

	assert.Error(t, r.Write(&out, "xml"))
}
