package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the user profile service's record of the authenticated user, as
// cached by this service. ProfilingComplete drives post-onboarding redirects.
type User struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Role              string     `json:"role"`
	ProfilingComplete bool       `json:"profiling_complete"`
	ProfiledTrack     string     `json:"profiled_track,omitempty"`
	ProfiledAt        *time.Time `json:"profiled_at,omitempty"`
}
