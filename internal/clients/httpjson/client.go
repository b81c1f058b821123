package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/neurobridge-onboarding/internal/platform/ctxutil"
)

const maxResponseBytes = 1 << 20

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	// Component names the collaborator in spans, e.g. "profiler".
	Component string
}

// Client is a single-attempt JSON transport. Retrying is left to the caller
// on purpose: every profiling call is user-driven and surfaces its failure.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	component  string
	tracer     trace.Tracer
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	component := strings.TrimSpace(opts.Component)
	if component == "" {
		component = "collaborator"
	}
	return &Client{
		baseURL:    baseURL,
		timeout:    opts.Timeout,
		httpClient: hc,
		component:  component,
		tracer:     otel.Tracer("neurobridge-onboarding/clients/" + component),
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Do sends body (if non-nil) as JSON and decodes a 2xx response into out (if non-nil).
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, c.component+" "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := ctxutil.BearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		req.Header.Set("X-Request-Id", td.RequestID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseHTTPError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
