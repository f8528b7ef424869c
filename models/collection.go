package models

import (
	"time"

	"gorm.io/datatypes"
)

// Collection names shared with every client of the store.
const (
	CollectionMenuItems = "menuItems"
	CollectionBanners   = "banners"
	CollectionOffers    = "offers"
	CollectionMenuPages = "menuPages"
	CollectionSettings  = "settings"
)

// CollectionNames lists every path the site reads and writes.
var CollectionNames = []string{
	CollectionMenuItems,
	CollectionBanners,
	CollectionOffers,
	CollectionMenuPages,
	CollectionSettings,
}

// CollectionRecord is the SQL row holding one collection's whole value.
type CollectionRecord struct {
	Name      string         `gorm:"primaryKey;type:varchar(64)"`
	Value     datatypes.JSON `gorm:"not null"`
	Version   int64          `gorm:"not null;default:0"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (CollectionRecord) TableName() string {
	return "collections"
}
