package app

import (
	"gorm.io/gorm"

	onboardingrepo "github.com/yungbote/neurobridge-onboarding/internal/data/repos/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
)

type Repos struct {
	CompletionRecords onboardingrepo.CompletionRecordRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		CompletionRecords: onboardingrepo.NewCompletionRecordRepo(db, log),
	}
}
