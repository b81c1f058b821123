package app

import (
	"fmt"

	"github.com/yungbote/neurobridge-onboarding/internal/clients/profiler"
	"github.com/yungbote/neurobridge-onboarding/internal/clients/userprofile"
	"github.com/yungbote/neurobridge-onboarding/internal/config"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
)

type Clients struct {
	Profiler    profiler.Client
	UserProfile userprofile.Client
}

// WireClients builds the collaborator clients. The walk command uses it
// without the rest of the server.
func WireClients(log *logger.Logger, cfg *config.Config) (Clients, error) {
	log.Info("Wiring clients...", "profiler", cfg.Profiler.BaseURL, "user_profile", cfg.UserProfile.BaseURL)

	pc, err := profiler.New(profiler.Options{
		BaseURL: cfg.Profiler.BaseURL,
		Timeout: cfg.Profiler.Timeout,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init profiler client: %w", err)
	}
	uc, err := userprofile.New(userprofile.Options{
		BaseURL: cfg.UserProfile.BaseURL,
		Timeout: cfg.UserProfile.Timeout,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init user profile client: %w", err)
	}
	return Clients{Profiler: pc, UserProfile: uc}, nil
}
