package onboarding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-onboarding/internal/clients/profiler"
	"github.com/yungbote/neurobridge-onboarding/internal/clients/userprofile"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/ctxutil"
)

const scenarioToken = "tok-abc"

func newProfilingServer(t *testing.T, completeCalls *int) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	answered := 0
	questions := []map[string]any{}
	for _, id := range []string{"q1", "q2", "q3", "q4"} {
		questions = append(questions, map[string]any{
			"id":       id,
			"question": "Pick one",
			"category": "work_style",
			"options": []map[string]string{
				{"value": "a", "text": "A"}, {"value": "b", "text": "B"}, {"value": "c", "text": "C"},
			},
		})
	}
	write := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/profiling/status", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+scenarioToken, r.Header.Get("Authorization"))
		write(w, map[string]any{"completed": false, "has_active_session": false})
	})
	mux.HandleFunc("POST /api/v1/profiling/session/start", func(w http.ResponseWriter, r *http.Request) {
		write(w, map[string]any{"session_id": "abc123", "status": "active"})
	})
	mux.HandleFunc("GET /api/v1/profiling/questions", func(w http.ResponseWriter, r *http.Request) {
		write(w, map[string]any{"questions": questions})
	})
	mux.HandleFunc("POST /api/v1/profiling/session/abc123/respond", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			QuestionID     string `json:"question_id"`
			SelectedOption string `json:"selected_option"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		answered++
		n := answered
		mu.Unlock()
		write(w, map[string]any{"progress": map[string]any{
			"session_id":          "abc123",
			"current_question":    n + 1,
			"total_questions":     4,
			"progress_percentage": float64(n) * 25,
		}})
	})
	mux.HandleFunc("POST /api/v1/profiling/session/abc123/complete", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		*completeCalls++
		mu.Unlock()
		write(w, map[string]any{
			"user_id":    "u-1",
			"session_id": "abc123",
			"recommendations": []map[string]any{
				{"track_key": "defender", "track_name": "Defender", "score": 88, "confidence_level": "high",
					"reasoning": []string{"likes blue team work"}},
				{"track_key": "builder", "track_name": "Builder", "score": 52, "confidence_level": "low"},
			},
			"primary_track":      map[string]any{"key": "defender", "name": "Defender"},
			"assessment_summary": "You protect systems.",
		})
	})
	mux.HandleFunc("GET /api/v1/profiling/session/abc123/blueprint", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		write(w, map[string]string{"detail": "not found"})
	})
	return httptest.NewServer(mux)
}

func TestFourQuestionScenario(t *testing.T) {
	completeCalls := 0
	profSrv := newProfilingServer(t, &completeCalls)
	defer profSrv.Close()

	var (
		syncMu  sync.Mutex
		synced  []map[string]any
		syncHit = make(chan struct{}, 1)
	)
	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/me/profiling-result/", r.URL.Path)
		assert.Equal(t, "Bearer "+scenarioToken, r.Header.Get("Authorization"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		syncMu.Lock()
		synced = append(synced, body)
		syncMu.Unlock()
		syncHit <- struct{}{}
		// Sync failure must not affect the flow.
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer userSrv.Close()

	pc, err := profiler.New(profiler.Options{BaseURL: profSrv.URL})
	require.NoError(t, err)
	uc, err := userprofile.New(userprofile.Options{BaseURL: userSrv.URL})
	require.NoError(t, err)

	h := newHarness(0)
	h.deps.Profiler = pc
	h.deps.Profiles = uc
	c := newTestController(t, h)

	userID := uuid.New()
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID, Token: scenarioToken})

	entry, err := c.Bootstrap(ctx, Authenticated(userID))
	require.NoError(t, err)
	require.Equal(t, EntryStarted, entry)
	require.Equal(t, "abc123", c.Snapshot().SessionID)
	_, _ = c.Advance()
	_, _ = c.Advance()

	steps := []struct {
		qid, value string
		index      int
		percent    float64
	}{
		{"q1", "b", 1, 25},
		{"q2", "a", 2, 50},
		{"q3", "c", 3, 75},
	}
	for _, s := range steps {
		out, err := c.SubmitAnswer(ctx, s.qid, s.value)
		require.NoError(t, err)
		require.Equal(t, s.index, out.QuestionIndex)
		require.Equal(t, s.percent, out.Progress.ProgressPercentage)
		require.Equal(t, SectionAssessment, out.Section)
	}
	require.Zero(t, completeCalls)

	out, err := c.SubmitAnswer(ctx, "q4", "a")
	require.NoError(t, err)
	require.Equal(t, SectionResults, out.Section)
	require.Equal(t, "defender", out.Result.PrimaryTrack.Key)
	require.Equal(t, 1, completeCalls)

	am := waitFollowup(t, c)
	require.Error(t, am.SyncErr)
	<-syncHit

	snap := c.Snapshot()
	require.Equal(t, SectionResults, snap.Section)
	require.Equal(t, "defender", snap.Result.PrimaryTrack.Key)
	require.Nil(t, snap.Blueprint)
	require.Nil(t, snap.Error)

	require.Len(t, synced, 1)
	body := synced[0]
	assert.Equal(t, "u-1", body["user_id"])
	assert.Equal(t, "abc123", body["session_id"])
	assert.Equal(t, "defender", body["primary_track"])
	recs, ok := body["recommendations"].([]any)
	require.True(t, ok)
	require.Len(t, recs, 2)
	first := recs[0].(map[string]any)
	assert.Equal(t, "defender", first["track_key"])
	assert.Equal(t, float64(88), first["score"])
	assert.Equal(t, "high", first["confidence_level"])
	assert.NotContains(t, first, "reasoning")

	require.Len(t, h.messages, 1)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(mustJSON(t, h.messages[0].Data), &payload))
	assert.Equal(t, "abc123", payload["sessionId"])
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
