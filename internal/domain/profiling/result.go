package profiling

import (
	"sort"
	"time"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type Recommendation struct {
	TrackKey          string     `json:"track_key"`
	TrackName         string     `json:"track_name"`
	Score             float64    `json:"score"`
	ConfidenceLevel   Confidence `json:"confidence_level"`
	Reasoning         []string   `json:"reasoning"`
	CareerSuggestions []string   `json:"career_suggestions"`
}

// PrimaryTrack is the top recommendation expanded with descriptive fields.
type PrimaryTrack struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	FocusAreas  []string `json:"focus_areas"`
	CareerPaths []string `json:"career_paths"`
}

type Result struct {
	UserID            string           `json:"user_id"`
	SessionID         string           `json:"session_id"`
	Recommendations   []Recommendation `json:"recommendations"`
	PrimaryTrack      PrimaryTrack     `json:"primary_track"`
	AssessmentSummary string           `json:"assessment_summary"`
	CompletedAt       time.Time        `json:"completed_at"`
}

// Ranked returns recommendations ordered by descending score without
// touching the receiver.
func (r Result) Ranked() []Recommendation {
	out := make([]Recommendation, len(r.Recommendations))
	copy(out, r.Recommendations)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Blueprint is an optional, richer companion to a Result. Callers must treat
// a nil *Blueprint as "not available" rather than an error.
type Blueprint struct {
	TrackRecommendation string   `json:"track_recommendation"`
	DifficultyLevel     string   `json:"difficulty_level"`
	LearningStrategy    string   `json:"learning_strategy"`
	ValueStatement      string   `json:"value_statement"`
	NextSteps           []string `json:"next_steps"`
	PersonalizedTips    []string `json:"personalized_tips,omitempty"`
}

type SyncRecommendation struct {
	TrackKey        string     `json:"track_key"`
	Score           float64    `json:"score"`
	ConfidenceLevel Confidence `json:"confidence_level"`
}

// SyncPayload is the reduced view of a Result mirrored into the user profile store.
type SyncPayload struct {
	UserID          string               `json:"user_id"`
	SessionID       string               `json:"session_id"`
	CompletedAt     time.Time            `json:"completed_at"`
	PrimaryTrack    string               `json:"primary_track"`
	Recommendations []SyncRecommendation `json:"recommendations"`
}

func NewSyncPayload(r Result) SyncPayload {
	recs := make([]SyncRecommendation, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		recs = append(recs, SyncRecommendation{
			TrackKey:        rec.TrackKey,
			Score:           rec.Score,
			ConfidenceLevel: rec.ConfidenceLevel,
		})
	}
	return SyncPayload{
		UserID:          r.UserID,
		SessionID:       r.SessionID,
		CompletedAt:     r.CompletedAt,
		PrimaryTrack:    r.PrimaryTrack.Key,
		Recommendations: recs,
	}
}
