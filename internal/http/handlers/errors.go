package handlers

import (
	"errors"
	"net/http"

	"github.com/yungbote/neurobridge-onboarding/internal/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/apierr"
)

var conflictCodes = []struct {
	err  error
	code string
}{
	{onboarding.ErrBusy, "busy"},
	{onboarding.ErrAlreadyStarted, "already_started"},
	{onboarding.ErrNoSession, "no_session"},
	{onboarding.ErrWrongSection, "wrong_section"},
	{onboarding.ErrStaleQuestion, "stale_question"},
	{onboarding.ErrNoTransition, "no_transition"},
	{onboarding.ErrNotFinished, "not_finished"},
	{onboarding.ErrFlowUnrecoverable, "flow_failed"},
}

// flowError maps controller errors onto HTTP statuses.
func flowError(err error) *apierr.Error {
	var fe *onboarding.FlowError
	if errors.As(err, &fe) {
		// The user-facing message is what the page would render.
		msgErr := errors.New(fe.Message)
		if fe.Kind == onboarding.KindUnexpected {
			return apierr.New(http.StatusInternalServerError, string(fe.Kind), msgErr)
		}
		return apierr.Upstream(string(fe.Kind)+"_failed", msgErr)
	}
	if errors.Is(err, onboarding.ErrInvalidAnswer) {
		return apierr.New(http.StatusUnprocessableEntity, "invalid_answer", err)
	}
	if errors.Is(err, onboarding.ErrNoFlow) {
		return apierr.New(http.StatusNotFound, "no_flow", err)
	}
	for _, cc := range conflictCodes {
		if errors.Is(err, cc.err) {
			return apierr.Conflict(cc.code, err)
		}
	}
	return apierr.As(err, "internal_error")
}
