package onboarding

import (
	"errors"
	"fmt"

	"github.com/yungbote/neurobridge-onboarding/internal/clients/httpjson"
)

var (
	// ErrBusy rejects a second operation while one is still in flight.
	ErrBusy              = errors.New("another onboarding request is in flight")
	ErrAlreadyStarted    = errors.New("onboarding flow already bootstrapped")
	ErrNoSession         = errors.New("no profiling session loaded")
	ErrWrongSection      = errors.New("operation not available in the current section")
	ErrStaleQuestion     = errors.New("answer is not for the current question")
	ErrInvalidAnswer     = errors.New("answer is not one of the question's options")
	ErrNoTransition      = errors.New("no forward transition from the current section")
	ErrNotFinished       = errors.New("assessment has not reached results")
	ErrEmptyAssessment   = errors.New("assessment has no questions")
	ErrFlowUnrecoverable = errors.New("onboarding flow failed; reload to start over")
)

type ErrorKind string

const (
	KindBootstrap  ErrorKind = "bootstrap"
	KindSubmission ErrorKind = "submission"
	KindCompletion ErrorKind = "completion"
	KindUnexpected ErrorKind = "unexpected"
)

// Recovery names the single affordance offered next to an error.
type Recovery string

const (
	RecoveryReload   Recovery = "reload"
	RecoveryResubmit Recovery = "resubmit"
)

var fallbackMessages = map[ErrorKind]string{
	KindBootstrap:  "We couldn't load your assessment. Please try again.",
	KindSubmission: "Failed to submit your answer. Please try again.",
	KindCompletion: "Failed to complete your assessment. Please try again.",
	KindUnexpected: "Something went wrong. Please try again.",
}

// FlowError is the user-visible error state of a controller.
type FlowError struct {
	Kind     ErrorKind `json:"kind"`
	Message  string    `json:"message"`
	Recovery Recovery  `json:"recovery"`
	Err      error     `json:"-"`
}

func (e *FlowError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *FlowError) Unwrap() error { return e.Err }

// Fatal errors end the flow instance; only a fresh bootstrap recovers.
func (e *FlowError) Fatal() bool {
	return e != nil && e.Recovery == RecoveryReload
}

func newFlowError(kind ErrorKind, err error) *FlowError {
	msg := httpjson.UserMessage(err)
	if msg == "" {
		msg = fallbackMessages[kind]
	}
	recovery := RecoveryResubmit
	if kind == KindBootstrap || kind == KindUnexpected {
		recovery = RecoveryReload
	}
	return &FlowError{Kind: kind, Message: msg, Recovery: recovery, Err: err}
}
