package onboarding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StepStatusOK     = "ok"
	StepStatusFailed = "failed"
)

// CompletionRecord is one row per finalized profiling session, capturing how
// the best-effort follow-ups (sync, broadcast, refresh) went.
type CompletionRecord struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID       string         `gorm:"column:session_id;not null;uniqueIndex" json:"session_id"`
	PrimaryTrack    string         `gorm:"column:primary_track;not null" json:"primary_track"`
	Recommendations datatypes.JSON `gorm:"column:recommendations" json:"recommendations,omitempty"`

	SyncStatus    string `gorm:"column:sync_status;not null" json:"sync_status"`
	SyncError     string `gorm:"column:sync_error" json:"sync_error,omitempty"`
	Notified      bool   `gorm:"column:notified;not null" json:"notified"`
	RefreshStatus string `gorm:"column:refresh_status;not null" json:"refresh_status"`

	CompletedAt time.Time `gorm:"column:completed_at;not null;index" json:"completed_at"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (CompletionRecord) TableName() string { return "onboarding_completion_record" }

// Degraded reports whether any follow-up after finalization failed.
func (r *CompletionRecord) Degraded() bool {
	if r == nil {
		return false
	}
	return r.SyncStatus == StepStatusFailed || r.RefreshStatus == StepStatusFailed || !r.Notified
}
