package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// one connection keeps shared-cache sqlite from reporting locked tables
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.CollectionRecord{}, &models.DBChange{}))
	return db
}

func TestChangeMonitorReportsNewChanges(t *testing.T) {
	db := setupTestDB(t)
	backend := store.NewSQLBackend(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// a change from before the monitor started is not replayed
	_, err := backend.Put(ctx, models.CollectionOffers, []byte(`[]`), "old")
	require.NoError(t, err)

	monitor := NewChangeMonitor(db)
	monitor.Interval = 10 * time.Millisecond

	var mu sync.Mutex
	var seen []store.Change
	go func() {
		_ = monitor.Watch(ctx, func(c store.Change) {
			mu.Lock()
			seen = append(seen, c)
			mu.Unlock()
		})
	}()

	// give Watch time to seed its cursor
	time.Sleep(50 * time.Millisecond)
	_, err = backend.Put(ctx, models.CollectionBanners, []byte(`[]`), "peer")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, store.Change{Collection: models.CollectionBanners, Version: 1, Origin: "peer"}, seen[0])
}

func TestChangeMonitorZeroIntervalUsesDefault(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())

	monitor := NewChangeMonitor(db)
	monitor.Interval = 0

	done := make(chan error, 1)
	go func() {
		done <- monitor.Watch(ctx, func(store.Change) {})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestTwoSitesShareOneDatabase(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newSite := func() *Site {
		monitor := NewChangeMonitor(db)
		monitor.Interval = 10 * time.Millisecond
		gw := store.NewGateway(store.NewSQLBackend(db), store.WithFeed(monitor))
		gw.Start(ctx)

		site := NewSite(gw)
		require.NoError(t, site.Start(ctx))
		require.NoError(t, site.WaitReady(ctx))
		t.Cleanup(func() {
			site.Close()
			gw.Close()
		})
		return site
	}

	a := newSite()
	b := newSite()
	time.Sleep(50 * time.Millisecond)

	offer, err := a.Offers.CreateOffer(ctx, OfferInput{Title: "Summer Special", Description: "20% off all desserts"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		offers := b.Offers.Snapshot()
		return len(offers) == 1 && offers[0] == offer
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChangeMonitorPrunesOldRows(t *testing.T) {
	db := setupTestDB(t)
	old := models.DBChange{Collection: "offers", Version: 1, Origin: "x", ChangedAt: time.Now().Add(-48 * time.Hour)}
	fresh := models.DBChange{Collection: "offers", Version: 2, Origin: "x", ChangedAt: time.Now()}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&fresh).Error)

	monitor := NewChangeMonitor(db)
	monitor.pruneChanges(context.Background())

	var left []models.DBChange
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, int64(2), left[0].Version)
}
