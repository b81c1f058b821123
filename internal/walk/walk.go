package walk

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-onboarding/internal/onboarding"
)

var ErrAborted = errors.New("onboarding aborted")

// Walker drives a single onboarding flow from a terminal.
type Walker struct {
	Flow   *onboarding.Controller
	Prompt Prompter
	Out    io.Writer
}

// Run walks welcome → instructions → assessment → results and returns the
// report after the exit action.
func (w *Walker) Run(ctx context.Context, userID uuid.UUID) (Report, error) {
	entry, err := w.Flow.Bootstrap(ctx, onboarding.Authenticated(userID))
	if err != nil {
		return Report{}, err
	}
	switch entry {
	case onboarding.EntryLogin:
		return Report{Redirect: onboarding.RedirectLogin}, errors.New("a valid token is required")
	case onboarding.EntryDashboard:
		fmt.Fprintln(w.Out, green("Profiling already completed."))
		return Report{Redirect: onboarding.RedirectDashboard}, nil
	case onboarding.EntryResumed:
		fmt.Fprintln(w.Out, gray("Resuming your assessment."))
	}

	fmt.Fprintln(w.Out, bold("Welcome! Let's find the track that fits you."))
	if err := w.step("Start"); err != nil {
		return Report{}, err
	}
	fmt.Fprintln(w.Out, "Pick the answer that sounds most like you. There are no wrong answers.")
	if err := w.step("Begin assessment"); err != nil {
		return Report{}, err
	}

	for {
		snap := w.Flow.Snapshot()
		if snap.Section != onboarding.SectionAssessment {
			break
		}
		if snap.Question == nil {
			return Report{}, errors.New("no current question")
		}
		previous := snap.Selection
		if previous == "" {
			previous = snap.PreviousAnswer
		}
		value, err := w.Prompt.Choose(*snap.Question, snap.QuestionIndex, snap.TotalQuestions, previous)
		if err != nil {
			return Report{}, fmt.Errorf("%w: %v", ErrAborted, err)
		}
		_, err = w.Flow.SubmitAnswer(ctx, snap.Question.ID, value)
		var fe *onboarding.FlowError
		switch {
		case err == nil:
		case errors.As(err, &fe) && fe.Recovery == onboarding.RecoveryResubmit:
			fmt.Fprintln(w.Out, red(fe.Message))
		default:
			return Report{}, err
		}
	}

	var am onboarding.Aftermath
	if fu := w.Flow.Followup(); fu != nil {
		am, err = fu.Wait(ctx)
		if err != nil {
			return Report{}, err
		}
	}
	report := newReport(w.Flow.Snapshot(), am)

	redirect, err := w.Flow.Finish(ctx)
	if err != nil {
		return report, err
	}
	report.Redirect = redirect
	return report, nil
}

func (w *Walker) step(label string) error {
	ok, err := w.Prompt.Confirm(label)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	_, err = w.Flow.Advance()
	return err
}
