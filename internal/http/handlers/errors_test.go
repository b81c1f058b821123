package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/neurobridge-onboarding/internal/onboarding"
)

func TestFlowErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{onboarding.ErrBusy, http.StatusConflict, "busy"},
		{fmt.Errorf("wrapped: %w", onboarding.ErrStaleQuestion), http.StatusConflict, "stale_question"},
		{onboarding.ErrInvalidAnswer, http.StatusUnprocessableEntity, "invalid_answer"},
		{onboarding.ErrNoFlow, http.StatusNotFound, "no_flow"},
		{&onboarding.FlowError{Kind: onboarding.KindSubmission, Message: "nope"}, http.StatusBadGateway, "submission_failed"},
		{&onboarding.FlowError{Kind: onboarding.KindUnexpected, Message: "oops"}, http.StatusInternalServerError, "unexpected"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		got := flowError(tc.err)
		if got.Status != tc.status || got.Code != tc.code {
			t.Fatalf("flowError(%v) = %d/%s, want %d/%s", tc.err, got.Status, got.Code, tc.status, tc.code)
		}
	}
}

func TestFlowErrorUsesUserMessage(t *testing.T) {
	got := flowError(&onboarding.FlowError{Kind: onboarding.KindBootstrap, Message: "Service unavailable", Err: errors.New("dial tcp")})
	if got.Error() != "Service unavailable" {
		t.Fatalf("message = %q", got.Error())
	}
}
