package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "http error"
	}
	if strings.TrimSpace(e.Code) != "" {
		return fmt.Sprintf("http error: status=%d code=%s message=%s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("http error: status=%d message=%s", e.StatusCode, msg)
}

// IsStatus reports whether err is an *HTTPError with the given status code.
func IsStatus(err error, status int) bool {
	var herr *HTTPError
	return errors.As(err, &herr) && herr.StatusCode == status
}

// UserMessage extracts the collaborator-provided message, or "" when the
// failure carried none (transport errors, empty bodies).
func UserMessage(err error) string {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return strings.TrimSpace(herr.Message)
	}
	return ""
}

// parseHTTPError understands the three envelopes our collaborators use:
// FastAPI {"detail": "..."}, DRF {"message": "..."} / {"detail": ...} and
// {"error": {"message": "...", "code": "..."}}.
func parseHTTPError(status int, raw []byte) *HTTPError {
	out := &HTTPError{StatusCode: status, Body: strings.TrimSpace(string(raw))}

	var env struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Code    string          `json:"code"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return out
	}

	var nested struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if len(env.Error) > 0 && json.Unmarshal(env.Error, &nested) == nil && nested.Message != "" {
		out.Message = nested.Message
		out.Code = nested.Code
		return out
	}

	var detail string
	if len(env.Detail) > 0 && json.Unmarshal(env.Detail, &detail) == nil && detail != "" {
		out.Message = detail
		out.Code = env.Code
		return out
	}
	out.Message = env.Message
	out.Code = env.Code
	return out
}
