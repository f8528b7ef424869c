package services

import (
	"context"
	"time"

	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/store"
	"github.com/yeremiapane/paradise-cafe/utils"
	"gorm.io/gorm"
)

const defaultPollInterval = 1 * time.Second

// ChangeMonitor polls the db_changes log written by the SQL backend and reports every new row.
// It lets several processes share one database without a broker.
type ChangeMonitor struct {
	DB        *gorm.DB
	StopChan  chan struct{}
	Interval  time.Duration
	Retention time.Duration
	BatchSize int

	lastID uint
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:        db,
		StopChan:  make(chan struct{}),
		Interval:  defaultPollInterval,
		Retention: 24 * time.Hour,
		BatchSize: 100,
	}
}

// Watch implements store.Feed. Only changes logged after Watch starts are reported.
func (cm *ChangeMonitor) Watch(ctx context.Context, fn func(store.Change)) error {
	var last struct{ MaxID uint }
	if err := cm.DB.WithContext(ctx).Model(&models.DBChange{}).
		Select("COALESCE(MAX(id), 0) AS max_id").
		Scan(&last).Error; err != nil {
		return err
	}
	cm.lastID = last.MaxID

	interval := cm.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prune := time.NewTicker(cm.pruneEvery())
	defer prune.Stop()

	for {
		select {
		case <-ticker.C:
			cm.checkChanges(ctx, fn)
		case <-prune.C:
			cm.pruneChanges(ctx)
		case <-cm.StopChan:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges(ctx context.Context, fn func(store.Change)) {
	var changes []models.DBChange
	if err := cm.DB.WithContext(ctx).
		Where("id > ?", cm.lastID).
		Order("id ASC").
		Limit(cm.BatchSize).
		Find(&changes).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		utils.InfoLogger.Debugf("Processing change: collection=%s, version=%d, origin=%s",
			change.Collection, change.Version, change.Origin)

		fn(store.Change{
			Collection: change.Collection,
			Version:    change.Version,
			Origin:     change.Origin,
		})
		cm.lastID = change.ID
	}

	if len(changes) > 0 {
		utils.InfoLogger.Debugf("Successfully processed %d changes", len(changes))
	}
}

func (cm *ChangeMonitor) pruneChanges(ctx context.Context) {
	if cm.Retention <= 0 {
		return
	}

	cutoff := time.Now().Add(-cm.Retention)
	res := cm.DB.WithContext(ctx).Where("changed_at < ?", cutoff).Delete(&models.DBChange{})
	if res.Error != nil {
		utils.ErrorLogger.Printf("Error pruning changes: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		utils.InfoLogger.Printf("Pruned %d changes older than %s", res.RowsAffected, cm.Retention)
	}
}

func (cm *ChangeMonitor) pruneEvery() time.Duration {
	if cm.Retention > 0 && cm.Retention < time.Hour {
		return cm.Retention
	}
	return time.Hour
}
