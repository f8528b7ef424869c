package models

import (
	"time"
)

// DBChange is appended for every collection write so other instances sharing the database can
// pick the change up.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	Collection string    `gorm:"type:varchar(64);not null;index:idx_collection_version"`
	Version    int64     `gorm:"not null;index:idx_collection_version"`
	Origin     string    `gorm:"type:varchar(64);not null"`
	ChangedAt  time.Time `gorm:"not null;index:idx_changed_at"`
}

func (DBChange) TableName() string {
	return "db_changes"
}
