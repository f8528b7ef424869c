package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/paradise-cafe/ingest"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/store"
)

var ErrUnknownField = errors.New("unknown field")

type BannerEditor struct {
	*Editor[models.Banner]
}

func NewBannerEditor(gw *store.Gateway, monitor *WriteMonitor) *BannerEditor {
	return &BannerEditor{Editor: NewEditor[models.Banner](gw, models.CollectionBanners, monitor)}
}

// AddImages appends one untitled banner per valid payload in a single write. Ids follow the
// payload index, so a skipped payload leaves a gap.
func (b *BannerEditor) AddImages(ctx context.Context, payloads []ingest.ImagePayload) ([]models.Banner, error) {
	ids := ingest.BatchIDs(now(), len(payloads))

	banners := make([]models.Banner, 0, len(payloads))
	for i, p := range payloads {
		if !p.Valid() {
			continue
		}
		banners = append(banners, models.Banner{ID: ids[i], ImageURL: string(p)})
	}
	if len(banners) == 0 {
		return banners, nil
	}
	return banners, b.Add(ctx, banners...)
}

// UpdateText sets the title or subtitle of one banner. An empty value clears it.
func (b *BannerEditor) UpdateText(ctx context.Context, id, field, value string) error {
	switch field {
	case "title", "subtitle":
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	return b.Update(ctx, id, func(banner *models.Banner) {
		if field == "title" {
			banner.Title = value
		} else {
			banner.Subtitle = value
		}
	})
}
