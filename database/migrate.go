package database

import (
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/utils"
	"gorm.io/gorm"
)

// Migrate creates the collections table and the change log.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.CollectionRecord{},
		&models.DBChange{},
	); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
