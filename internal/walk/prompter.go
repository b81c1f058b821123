package walk

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
)

// Prompter collects the user's choices. The terminal implementation uses
// promptui; tests script the answers.
type Prompter interface {
	Confirm(label string) (bool, error)
	Choose(q profiling.Question, index, total int, previous string) (string, error)
}

type TerminalPrompter struct{}

func (TerminalPrompter) Confirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true, Default: "y"}
	_, err := p.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (TerminalPrompter) Choose(q profiling.Question, index, total int, previous string) (string, error) {
	cursor := 0
	for i, o := range q.Options {
		if o.Value == previous {
			cursor = i
		}
	}
	sel := promptui.Select{
		Label:     fmt.Sprintf("[%d/%d] %s", index+1, total, q.Question),
		Items:     q.Options,
		CursorPos: cursor,
		Size:      len(q.Options),
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Text | cyan }}",
			Inactive: "  {{ .Text }}",
			Selected: "✔ {{ .Text | green }}",
		},
	}
	i, _, err := sel.Run()
	if err != nil {
		return "", err
	}
	return q.Options[i].Value, nil
}
