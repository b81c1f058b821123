package userprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-onboarding/internal/clients/httpjson"
	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
	"github.com/yungbote/neurobridge-onboarding/internal/domain/user"
)

// Client is the main user profile store: the second system of record for a
// profiling outcome, and the source of the cached "current user".
type Client interface {
	SyncProfilingResult(ctx context.Context, payload profiling.SyncPayload) error
	ReloadCurrentUser(ctx context.Context) (*user.User, error)
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
		Component:  "user_profile",
	})
	if err != nil {
		return nil, fmt.Errorf("user profile client: %w", err)
	}
	return &client{http: hc}, nil
}

func (c *client) SyncProfilingResult(ctx context.Context, payload profiling.SyncPayload) error {
	// The acknowledgement body is not interesting; only the status is.
	if err := c.http.Do(ctx, http.MethodPost, "/api/v1/users/me/profiling-result/", payload, nil); err != nil {
		return fmt.Errorf("sync profiling result: %w", err)
	}
	return nil
}

func (c *client) ReloadCurrentUser(ctx context.Context) (*user.User, error) {
	var raw json.RawMessage
	if err := c.http.Do(ctx, http.MethodGet, "/api/v1/auth/me/", nil, &raw); err != nil {
		return nil, fmt.Errorf("reload current user: %w", err)
	}
	u, err := decodeUser(raw)
	if err != nil {
		return nil, fmt.Errorf("reload current user: %w", err)
	}
	return u, nil
}

// decodeUser accepts {"user": {...}} as well as a bare user object.
func decodeUser(raw json.RawMessage) (*user.User, error) {
	var env struct {
		User *user.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	u := env.User
	if u == nil {
		u = &user.User{}
		if err := json.Unmarshal(raw, u); err != nil {
			return nil, err
		}
	}
	if u.ID == uuid.Nil {
		return nil, errors.New("response missing user id")
	}
	return u, nil
}
