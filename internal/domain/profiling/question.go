package profiling

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryTechnicalAptitude  Category = "technical_aptitude"
	CategoryProblemSolving     Category = "problem_solving"
	CategoryScenarioPreference Category = "scenario_preference"
	CategoryWorkStyle          Category = "work_style"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTechnicalAptitude, CategoryProblemSolving, CategoryScenarioPreference, CategoryWorkStyle:
		return true
	}
	return false
}

type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Category Category `json:"category"`
	Options  []Option `json:"options"`
}

func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question missing id")
	}
	if !q.Category.Valid() {
		return fmt.Errorf("question %s has unknown category %q", q.ID, q.Category)
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("question %s has no options", q.ID)
	}
	return nil
}

// Option finds the option whose value matches, ignoring surrounding
// whitespace on either side. The returned option carries the value as the
// profiler sent it.
func (q Question) Option(value string) (Option, bool) {
	value = strings.TrimSpace(value)
	for _, o := range q.Options {
		if strings.TrimSpace(o.Value) == value {
			return o, true
		}
	}
	return Option{}, false
}

func (q Question) HasOption(value string) bool {
	_, ok := q.Option(value)
	return ok
}

// Answers maps question id to the selected option value.
type Answers map[string]string

func (a Answers) Get(questionID string) (string, bool) {
	v, ok := a[questionID]
	return v, ok
}
