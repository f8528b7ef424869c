package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/paradise-cafe/ingest"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/store"
)

const pngPayload = ingest.ImagePayload("data:image/png;base64,iVBORw0KGgo=")

func startedSite(t *testing.T, backend store.Backend) *Site {
	t.Helper()

	gw := store.NewGateway(backend)
	site := NewSite(gw)
	require.NoError(t, site.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, site.WaitReady(ctx))

	t.Cleanup(func() {
		site.Close()
		gw.Close()
	})
	return site
}

// subscriber collects typed snapshots of one collection.
type subscriber[T any] struct {
	mu   sync.Mutex
	last []T
	n    int
}

func subscribe[T any](t *testing.T, gw *store.Gateway, name string) *subscriber[T] {
	t.Helper()
	s := &subscriber[T]{}
	unsub, err := store.NewCollection[T](gw, name).Subscribe(context.Background(), func(items []T, _ int64) {
		s.mu.Lock()
		s.last = items
		s.n++
		s.mu.Unlock()
	})
	require.NoError(t, err)
	t.Cleanup(unsub)
	return s
}

func (s *subscriber[T]) snapshot() ([]T, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.n
}

func TestAddAppendsExactlyOnce(t *testing.T) {
	site := startedSite(t, store.NewMemoryBackend())
	ctx := context.Background()

	first, err := site.Menu.AddItem(ctx, MenuItemInput{Name: "Kahwa", Price: "250", Category: "Drinks"})
	require.NoError(t, err)

	sub := subscribe[models.MenuItem](t, site.Gateway, models.CollectionMenuItems)
	second, err := site.Menu.AddItem(ctx, MenuItemInput{Name: "Phirni", Price: "300", Category: "Desserts"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		items, _ := sub.snapshot()
		return len(items) == 2
	}, time.Second, 5*time.Millisecond)

	items, _ := sub.snapshot()
	assert.Equal(t, []models.MenuItem{first, second}, items)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDeleteRemovesOnlyTarget(t *testing.T) {
	site := startedSite(t, store.NewMemoryBackend())
	ctx := context.Background()

	banners, err := site.Banners.AddImages(ctx, []ingest.ImagePayload{pngPayload, pngPayload, pngPayload})
	require.NoError(t, err)
	require.Len(t, banners, 3)

	require.NoError(t, site.Banners.Delete(ctx, banners[1].ID))
	after := site.Banners.Snapshot()
	assert.Equal(t, []models.Banner{banners[0], banners[2]}, after)

	// second delete is a no-op
	require.NoError(t, site.Banners.Delete(ctx, banners[1].ID))
	assert.Equal(t, after, site.Banners.Snapshot())
}

func TestBatchUploadIDsFollowIndex(t *testing.T) {
	now = func() time.Time { return time.UnixMilli(1700000000000) }
	t.Cleanup(func() { now = time.Now })

	site := startedSite(t, store.NewMemoryBackend())

	pages, err := site.MenuPages.AddImages(context.Background(), []ingest.ImagePayload{pngPayload, "", pngPayload})
	require.NoError(t, err)

	require.Len(t, pages, 2)
	prefix, index, _ := strings.Cut(pages[0].ID, "-")
	assert.True(t, strings.HasPrefix(prefix, "1700000000000"))
	assert.Equal(t, "0", index)
	assert.Equal(t, prefix+"-2", pages[1].ID)

	// two uploads in the same millisecond never share ids
	again, err := site.MenuPages.AddImages(context.Background(), []ingest.ImagePayload{pngPayload})
	require.NoError(t, err)
	require.NoError(t, site.MenuPages.Delete(context.Background(), again[0].ID))
	assert.Len(t, site.MenuPages.Snapshot(), 2)
}

func TestCreateOfferWithoutImage(t *testing.T) {
	site := startedSite(t, store.NewMemoryBackend())
	sub := subscribe[models.Offer](t, site.Gateway, models.CollectionOffers)

	offer, err := site.Offers.CreateOffer(context.Background(), OfferInput{
		Title:          "Summer Special",
		Description:    "20% off all desserts",
		DiscountAmount: "20% OFF",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, offer.ID)
	assert.Equal(t, "Summer Special", offer.Title)
	assert.Equal(t, "20% off all desserts", offer.Description)
	assert.Equal(t, "20% OFF", offer.DiscountAmount)
	assert.Empty(t, offer.ImageURL)

	raw, err := json.Marshal(offer)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "imageUrl")

	assert.Eventually(t, func() bool {
		offers, _ := sub.snapshot()
		return len(offers) == 1 && offers[0] == offer
	}, time.Second, 5*time.Millisecond)
}

func TestCreateOfferRequiresTitleAndDescription(t *testing.T) {
	site := startedSite(t, store.NewMemoryBackend())

	_, err := site.Offers.CreateOffer(context.Background(), OfferInput{Title: "  ", Description: "x"})
	assert.ErrorIs(t, err, ErrOfferIncomplete)
	assert.Empty(t, site.Offers.Snapshot())
	assert.Equal(t, int64(0), site.Monitor.GetMetrics().TotalWrites)
}

func TestUpdateFieldAndText(t *testing.T) {
	site := startedSite(t, store.NewMemoryBackend())
	ctx := context.Background()

	item, err := site.Menu.AddItem(ctx, MenuItemInput{Name: "Rogan Josh", Price: "900"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryMains, item.Category)

	require.NoError(t, site.Menu.UpdateField(ctx, item.ID, "price", 1100.0))
	require.NoError(t, site.Menu.UpdateField(ctx, item.ID, "isSpicy", true))
	got, ok := site.Menu.Find(item.ID)
	require.True(t, ok)
	assert.Equal(t, 1100.0, got.Price)
	assert.True(t, got.IsSpicy)

	assert.ErrorIs(t, site.Menu.UpdateField(ctx, item.ID, "id", "other"), ErrImmutableField)

	banners, err := site.Banners.AddImages(ctx, []ingest.ImagePayload{pngPayload})
	require.NoError(t, err)
	require.NoError(t, site.Banners.UpdateText(ctx, banners[0].ID, "title", "Winter Menu"))
	assert.ErrorIs(t, site.Banners.UpdateText(ctx, banners[0].ID, "imageUrl", "x"), ErrUnknownField)

	b, _ := site.Banners.Find(banners[0].ID)
	assert.Equal(t, "Winter Menu", b.Title)
}

func TestUpdateItemRejectsInvalidFieldsWithoutWriting(t *testing.T) {
	site := startedSite(t, store.NewMemoryBackend())
	ctx := context.Background()

	item, err := site.Menu.AddItem(ctx, MenuItemInput{Name: "Kahwa", Price: "250", Category: "Drinks"})
	require.NoError(t, err)
	writes := site.Monitor.GetMetrics().TotalWrites

	cases := []map[string]any{
		{"name": "Nx", "price": "bad"},
		{"name": "Nx", "price": true},
		{"price": -5.0},
		{"category": "Brunch"},
		{"category": nil},
	}
	for _, fields := range cases {
		_, _, err := site.Menu.UpdateItem(ctx, item.ID, fields)
		assert.ErrorIs(t, err, ErrInvalidField, "%v", fields)
	}

	got, ok := site.Menu.Find(item.ID)
	require.True(t, ok)
	assert.Equal(t, item, got)
	assert.Equal(t, writes, site.Monitor.GetMetrics().TotalWrites)

	updated, ok, err := site.Menu.UpdateItem(ctx, item.ID, map[string]any{"name": "Noon Chai", "price": " 300 ", "category": "Specials"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Noon Chai", updated.Name)
	assert.Equal(t, 300.0, updated.Price)
	assert.Equal(t, models.CategorySpecials, updated.Category)
	assert.Equal(t, writes+1, site.Monitor.GetMetrics().TotalWrites)

	_, ok, err = site.Menu.UpdateItem(ctx, "missing", map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteFailureKeepsLocalMirror(t *testing.T) {
	backend := &flakyBackend{Backend: store.NewMemoryBackend()}
	site := startedSite(t, backend)
	ctx := context.Background()

	backend.setFail(true)
	offer, err := site.Offers.CreateOffer(ctx, OfferInput{Title: "Chai Hour", Description: "Free refills"})

	var werr *store.RemoteWriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, models.CollectionOffers, werr.Collection)

	// not rolled back
	assert.Equal(t, []models.Offer{offer}, site.Offers.Snapshot())

	metrics := site.Monitor.GetMetrics()
	assert.Equal(t, int64(1), metrics.FailedWrites)
	require.NotNil(t, metrics.LastFailure)
	assert.Equal(t, models.CollectionOffers, metrics.LastFailure.Collection)

	remote, err := store.NewCollection[models.Offer](site.Gateway, models.CollectionOffers).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, remote)
}

func TestNotStarted(t *testing.T) {
	gw := store.NewGateway(store.NewMemoryBackend())
	defer gw.Close()

	editor := NewOfferEditor(gw, nil)
	_, err := editor.CreateOffer(context.Background(), OfferInput{Title: "a", Description: "b"})
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"450", 450},
		{" 12.75 ", 12.75},
		{"", 0},
		{"abc", 0},
		{"-5", 0},
		{"NaN", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePrice(tt.in), tt.in)
	}
}

func TestMenuSearchAndFilter(t *testing.T) {
	site := startedSite(t, store.NewMemoryBackend())
	ctx := context.Background()

	_, err := site.Menu.AddItem(ctx, MenuItemInput{Name: "Kashmiri Kahwa", Category: "Drinks"})
	require.NoError(t, err)
	_, err = site.Menu.AddItem(ctx, MenuItemInput{Name: "Rogan Josh", Category: "Mains"})
	require.NoError(t, err)

	assert.Len(t, site.Menu.Search("josh"), 1)
	assert.Len(t, site.Menu.Search(""), 2)
	assert.Len(t, site.Menu.Filter(models.CategoryDrinks), 1)
	assert.Len(t, site.Menu.Filter(models.CategoryAll), 2)
}

type flakyBackend struct {
	store.Backend
	mu   sync.Mutex
	fail bool
}

func (f *flakyBackend) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *flakyBackend) Put(ctx context.Context, name string, value json.RawMessage, origin string) (int64, error) {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return 0, errors.New("permission denied")
	}
	return f.Backend.Put(ctx, name, value, origin)
}
