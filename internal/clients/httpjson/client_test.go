package httpjson

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-onboarding/internal/platform/ctxutil"
)

func TestDoForwardsBearerAndDecodes(t *testing.T) {
	var gotAuth, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL + "/", Component: "test"})
	require.NoError(t, err)

	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{Token: "tok"})
	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.Do(ctx, http.MethodPost, "/x", map[string]string{"a": "b"}, &out))
	require.True(t, out.OK)
	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, "application/json", gotCT)
}

func TestDoParsesErrorEnvelopes(t *testing.T) {
	cases := []struct {
		name string
		body string
		msg  string
		code string
	}{
		{"fastapi", `{"detail":"Session not found"}`, "Session not found", ""},
		{"drf", `{"message":"Bad payload","code":"invalid"}`, "Bad payload", "invalid"},
		{"nested", `{"error":{"message":"nope","code":"forbidden"}}`, "nope", "forbidden"},
		{"fastapi validation", `{"detail":[{"loc":["body"],"msg":"field required"}]}`, "", ""},
		{"plain", `upstream exploded`, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, err := New(Options{BaseURL: srv.URL})
			require.NoError(t, err)
			err = c.Do(context.Background(), http.MethodGet, "/y", nil, nil)
			require.Error(t, err)
			require.True(t, IsStatus(err, http.StatusUnprocessableEntity))
			require.Equal(t, tc.msg, UserMessage(err))

			var herr *HTTPError
			require.ErrorAs(t, err, &herr)
			require.Equal(t, tc.code, herr.Code)
		})
	}
}

func TestDoSingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	require.Error(t, c.Do(context.Background(), http.MethodGet, "/z", nil, nil))
	require.Equal(t, 1, calls)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "  "})
	require.Error(t, err)
}
