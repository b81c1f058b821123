package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-onboarding/internal/domain/onboarding"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.CompletionRecord{},
	)
}
