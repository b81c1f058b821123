package profiler

import (
	"bytes"
	"encoding/json"

	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
)

// rawQuestions accepts both a bare array and {"questions": [...]}; the
// service has shipped both shapes.
type rawQuestions struct {
	questions []profiling.Question
}

func (r *rawQuestions) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &r.questions)
	}
	var env struct {
		Questions []profiling.Question `json:"questions"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	r.questions = env.Questions
	return nil
}
