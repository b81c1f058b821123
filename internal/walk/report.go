package walk

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-onboarding/internal/domain/profiling"
	"github.com/yungbote/neurobridge-onboarding/internal/onboarding"
)

type Report struct {
	SessionID       string               `yaml:"session_id"`
	PrimaryTrack    string               `yaml:"primary_track"`
	TrackName       string               `yaml:"track_name,omitempty"`
	Summary         string               `yaml:"summary,omitempty"`
	Recommendations []ReportTrack        `yaml:"recommendations"`
	Blueprint       *profiling.Blueprint `yaml:"blueprint,omitempty"`
	Degraded        bool                 `yaml:"degraded"`
	Redirect        onboarding.Redirect  `yaml:"redirect,omitempty"`
}

type ReportTrack struct {
	Track      string   `yaml:"track"`
	Score      float64  `yaml:"score"`
	Confidence string   `yaml:"confidence"`
	Reasoning  []string `yaml:"reasoning,omitempty"`
}

func newReport(snap onboarding.Snapshot, am onboarding.Aftermath) Report {
	r := Report{
		SessionID: snap.SessionID,
		Blueprint: snap.Blueprint,
		Degraded:  am.Degraded(),
	}
	if snap.Result == nil {
		return r
	}
	r.PrimaryTrack = snap.Result.PrimaryTrack.Key
	r.TrackName = snap.Result.PrimaryTrack.Name
	r.Summary = snap.Result.AssessmentSummary
	for _, rec := range snap.Result.Ranked() {
		r.Recommendations = append(r.Recommendations, ReportTrack{
			Track:      rec.TrackKey,
			Score:      rec.Score,
			Confidence: string(rec.ConfidenceLevel),
			Reasoning:  rec.Reasoning,
		})
	}
	return r
}

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// Write renders the report as "text" or "yaml".
func (r Report) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	fmt.Fprintf(w, "%s %s\n", bold("Your track:"), green(r.TrackName+" ("+r.PrimaryTrack+")"))
	if r.Summary != "" {
		fmt.Fprintln(w, gray(r.Summary))
	}
	for i, t := range r.Recommendations {
		fmt.Fprintf(w, "  %d. %-16s %5.1f  %s\n", i+1, t.Track, t.Score, t.Confidence)
	}
	if r.Blueprint != nil {
		fmt.Fprintf(w, "%s %s\n", bold("Next:"), r.Blueprint.ValueStatement)
		for _, step := range r.Blueprint.NextSteps {
			fmt.Fprintf(w, "  - %s\n", step)
		}
	}
	if r.Degraded {
		fmt.Fprintln(w, yellow("Saved with warnings: your profile may take a moment to update."))
	}
	return nil
}
