package services

import (
	"context"

	"github.com/yeremiapane/paradise-cafe/ingest"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/store"
)

type MenuPageEditor struct {
	*Editor[models.MenuPage]
}

func NewMenuPageEditor(gw *store.Gateway, monitor *WriteMonitor) *MenuPageEditor {
	return &MenuPageEditor{Editor: NewEditor[models.MenuPage](gw, models.CollectionMenuPages, monitor)}
}

// AddImages appends the scanned pages in upload order.
func (m *MenuPageEditor) AddImages(ctx context.Context, payloads []ingest.ImagePayload) ([]models.MenuPage, error) {
	ids := ingest.BatchIDs(now(), len(payloads))

	pages := make([]models.MenuPage, 0, len(payloads))
	for i, p := range payloads {
		if !p.Valid() {
			continue
		}
		pages = append(pages, models.MenuPage{ID: ids[i], ImageURL: string(p)})
	}
	if len(pages) == 0 {
		return pages, nil
	}
	return pages, m.Add(ctx, pages...)
}
