package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/paradise-cafe/models"
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

func TestSQLBackendPutAndGet(t *testing.T) {
	db := setupTestDB(t)
	backend := NewSQLBackend(db)
	ctx := context.Background()

	snap, err := backend.Get(ctx, "offers")
	require.NoError(t, err)
	assert.Empty(t, snap.Value)
	assert.Equal(t, int64(0), snap.Version)

	v1, err := backend.Put(ctx, "offers", json.RawMessage(`[{"id":"1"}]`), "a")
	require.NoError(t, err)
	v2, err := backend.Put(ctx, "offers", json.RawMessage(`[]`), "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)
	assert.Equal(t, int64(2), v2)

	snap, err = backend.Get(ctx, "offers")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(snap.Value))
	assert.Equal(t, v2, snap.Version)

	var changes []models.DBChange
	require.NoError(t, db.Order("id").Find(&changes).Error)
	require.Len(t, changes, 2)
	assert.Equal(t, "offers", changes[1].Collection)
	assert.Equal(t, int64(2), changes[1].Version)
	assert.Equal(t, "b", changes[1].Origin)
}

func TestSQLBackendConcurrentFirstWrites(t *testing.T) {
	db := setupTestDB(t)
	a, b := NewSQLBackend(db), NewSQLBackend(db)
	ctx := context.Background()

	versions := make(chan int64, 2)
	errs := make(chan error, 2)
	for i, backend := range []*SQLBackend{a, b} {
		go func() {
			v, err := backend.Put(ctx, "banners", json.RawMessage(`[]`), fmt.Sprintf("instance-%d", i))
			errs <- err
			versions <- v
		}()
	}

	got := map[int64]bool{}
	for range 2 {
		require.NoError(t, <-errs)
		got[<-versions] = true
	}
	assert.Equal(t, map[int64]bool{1: true, 2: true}, got)

	var count int64
	require.NoError(t, db.Model(&models.CollectionRecord{}).Where("name = ?", "banners").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSQLBackendThroughGateway(t *testing.T) {
	gw := NewGateway(NewSQLBackend(setupTestDB(t)))
	defer gw.Close()

	coll := NewCollection[models.Offer](gw, models.CollectionOffers)
	ctx := context.Background()

	_, err := coll.Replace(ctx, []models.Offer{{ID: "1", Title: "Happy Hour", Description: "2 for 1"}})
	require.NoError(t, err)

	got, err := coll.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Offer{{ID: "1", Title: "Happy Hour", Description: "2 for 1"}}, got)

	_, err = coll.Replace(ctx, nil)
	require.NoError(t, err)
	got, err = coll.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
