package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/yeremiapane/paradise-cafe/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLBackend stores each collection as one row and logs every write to db_changes in the same
// transaction, so other instances can follow along.
type SQLBackend struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLBackend(db *gorm.DB) *SQLBackend {
	return &SQLBackend{db: db, now: time.Now}
}

func (b *SQLBackend) Get(ctx context.Context, name string) (Snapshot, error) {
	var rec models.CollectionRecord
	err := b.db.WithContext(ctx).Where("name = ?", name).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Snapshot{Collection: name}, nil
	}
	if err != nil {
		return Snapshot{Collection: name}, err
	}

	return Snapshot{
		Collection: name,
		Value:      json.RawMessage(rec.Value),
		Version:    rec.Version,
	}, nil
}

func (b *SQLBackend) Put(ctx context.Context, name string, value json.RawMessage, origin string) (int64, error) {
	var version int64
	now := b.now()

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := models.CollectionRecord{
			Name:      name,
			Value:     datatypes.JSON(value),
			Version:   1,
			UpdatedAt: now,
		}
		// insert or bump in one statement, so concurrent first writes of a collection both succeed
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: append(clause.AssignmentColumns([]string{"value", "updated_at"}), clause.Assignment{
				Column: clause.Column{Name: "version"},
				Value:  gorm.Expr("collections.version + 1"),
			}),
		}).Create(&rec).Error
		if err != nil {
			return err
		}

		var stored models.CollectionRecord
		if err := tx.Select("version").Where("name = ?", name).Take(&stored).Error; err != nil {
			return err
		}
		version = stored.Version

		return tx.Create(&models.DBChange{
			Collection: name,
			Version:    version,
			Origin:     origin,
			ChangedAt:  now,
		}).Error
	})
	if err != nil {
		return 0, err
	}

	return version, nil
}
