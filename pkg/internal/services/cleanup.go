package services

import (
	"time"

	"github.com/quillpost/quillpost/pkg/internal/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DoAutoDatabaseCleanup hard-prunes rows that were permanently deleted
// (gorm soft delete) longer ago than the retention window.
func DoAutoDatabaseCleanup() {
	retention := viper.GetInt("cleaner.deleted_retention_days")
	if retention <= 0 {
		retention = 30
	}
	deadline := time.Now().AddDate(0, 0, -retention)

	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	var count int64
	for _, model := range database.AutoMaintainRange {
		tx := database.C.Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at <= ?", deadline).
			Delete(model)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running auto maintenance...")
		}
		count += tx.RowsAffected
	}

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
