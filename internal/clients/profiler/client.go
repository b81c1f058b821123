package profiler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-onboarding/internal/clients/httpjson"
	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
)

// Client talks to the profiling service, which owns sessions, questions,
// progress and results. The caller's identity travels as the bearer token.
type Client interface {
	CheckStatus(ctx context.Context) (profiling.Status, error)
	StartSession(ctx context.Context) (profiling.Session, error)
	GetQuestions(ctx context.Context) ([]profiling.Question, error)
	GetProgress(ctx context.Context, sessionID string) (profiling.Progress, error)
	SubmitResponse(ctx context.Context, sessionID, questionID, answer string) (*profiling.Progress, error)
	CompleteSession(ctx context.Context, sessionID string) (profiling.Result, error)
	// GetBlueprint returns (nil, nil) when the session has no blueprint.
	GetBlueprint(ctx context.Context, sessionID string) (*profiling.Blueprint, error)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type client struct {
	http *httpjson.Client
}

func New(opts Options) (Client, error) {
	hc, err := httpjson.New(httpjson.Options{
		BaseURL:    opts.BaseURL,
		Timeout:    opts.Timeout,
		HTTPClient: opts.HTTPClient,
		Component:  "profiler",
	})
	if err != nil {
		return nil, fmt.Errorf("profiler client: %w", err)
	}
	return &client{http: hc}, nil
}

const apiPrefix = "/api/v1/profiling"

func sessionPath(sessionID, suffix string) string {
	return apiPrefix + "/session/" + url.PathEscape(sessionID) + suffix
}

func (c *client) CheckStatus(ctx context.Context) (profiling.Status, error) {
	var out profiling.Status
	if err := c.http.Do(ctx, http.MethodGet, apiPrefix+"/status", nil, &out); err != nil {
		return profiling.Status{}, fmt.Errorf("check profiling status: %w", err)
	}
	return out, nil
}

func (c *client) StartSession(ctx context.Context) (profiling.Session, error) {
	var out profiling.Session
	if err := c.http.Do(ctx, http.MethodPost, apiPrefix+"/session/start", struct{}{}, &out); err != nil {
		return profiling.Session{}, fmt.Errorf("start profiling session: %w", err)
	}
	if strings.TrimSpace(out.SessionID) == "" {
		return profiling.Session{}, errors.New("start profiling session: response missing session_id")
	}
	if out.Status == "" {
		out.Status = profiling.SessionActive
	}
	if out.Progress.SessionID == "" {
		out.Progress.SessionID = out.SessionID
	}
	return out, nil
}

func (c *client) GetQuestions(ctx context.Context) ([]profiling.Question, error) {
	var raw rawQuestions
	if err := c.http.Do(ctx, http.MethodGet, apiPrefix+"/questions", nil, &raw); err != nil {
		return nil, fmt.Errorf("get profiling questions: %w", err)
	}
	for _, q := range raw.questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("get profiling questions: %w", err)
		}
	}
	return raw.questions, nil
}

func (c *client) GetProgress(ctx context.Context, sessionID string) (profiling.Progress, error) {
	var out profiling.Progress
	if err := c.http.Do(ctx, http.MethodGet, sessionPath(sessionID, "/progress"), nil, &out); err != nil {
		return profiling.Progress{}, fmt.Errorf("get profiling progress: %w", err)
	}
	if out.SessionID == "" {
		out.SessionID = sessionID
	}
	return out, nil
}

type submitRequest struct {
	QuestionID     string `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

func (c *client) SubmitResponse(ctx context.Context, sessionID, questionID, answer string) (*profiling.Progress, error) {
	var out struct {
		Progress *profiling.Progress `json:"progress,omitempty"`
	}
	body := submitRequest{QuestionID: questionID, SelectedOption: answer}
	if err := c.http.Do(ctx, http.MethodPost, sessionPath(sessionID, "/respond"), body, &out); err != nil {
		return nil, fmt.Errorf("submit profiling response: %w", err)
	}
	return out.Progress, nil
}

func (c *client) CompleteSession(ctx context.Context, sessionID string) (profiling.Result, error) {
	var out profiling.Result
	if err := c.http.Do(ctx, http.MethodPost, sessionPath(sessionID, "/complete"), struct{}{}, &out); err != nil {
		return profiling.Result{}, fmt.Errorf("complete profiling session: %w", err)
	}
	if out.SessionID == "" {
		out.SessionID = sessionID
	}
	if out.CompletedAt.IsZero() {
		out.CompletedAt = time.Now().UTC()
	}
	return out, nil
}

func (c *client) GetBlueprint(ctx context.Context, sessionID string) (*profiling.Blueprint, error) {
	var out struct {
		Blueprint *profiling.Blueprint `json:"blueprint"`
	}
	err := c.http.Do(ctx, http.MethodGet, sessionPath(sessionID, "/blueprint"), nil, &out)
	if httpjson.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profiling blueprint: %w", err)
	}
	return out.Blueprint, nil
}
