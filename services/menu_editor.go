package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/store"
	"github.com/yeremiapane/paradise-cafe/utils"
	"github.com/yeremiapane/paradise-cafe/view"
)

// now is replaced in tests.
var now = time.Now

// MenuItemInput is the admin add-item form as submitted.
type MenuItemInput struct {
	Name         string `json:"name" form:"name"`
	Description  string `json:"description" form:"description"`
	Price        string `json:"price" form:"price"`
	Category     string `json:"category" form:"category"`
	ImageURL     string `json:"imageUrl" form:"imageUrl"`
	IsVegetarian bool   `json:"isVegetarian" form:"isVegetarian"`
	IsSpicy      bool   `json:"isSpicy" form:"isSpicy"`
}

type MenuEditor struct {
	*Editor[models.MenuItem]
}

func NewMenuEditor(gw *store.Gateway, monitor *WriteMonitor) *MenuEditor {
	editor := NewEditor[models.MenuItem](gw, models.CollectionMenuItems, monitor)
	editor.validate = validateMenuItem
	return &MenuEditor{Editor: editor}
}

func validateMenuItem(item models.MenuItem) error {
	if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
		return fmt.Errorf("%w: price must be a non-negative number", ErrInvalidField)
	}
	if !item.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidField, item.Category)
	}
	return nil
}

// UpdateItem patches a dish from an admin edit. A price may be sent as a number or a numeric
// string. Returns the stored dish; ok is false when no dish has id.
func (m *MenuEditor) UpdateItem(ctx context.Context, id string, fields map[string]any) (item models.MenuItem, ok bool, err error) {
	if raw, isString := fields["price"].(string); isString {
		p, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if perr != nil {
			return models.MenuItem{}, false, fmt.Errorf("%w: price %q is not a number", ErrInvalidField, raw)
		}
		patch := make(map[string]any, len(fields))
		for k, v := range fields {
			patch[k] = v
		}
		patch["price"] = p
		fields = patch
	}

	if err := m.UpdateFields(ctx, id, fields); err != nil {
		return models.MenuItem{}, false, err
	}
	item, ok = m.Find(id)
	return item, ok, nil
}

// AddItem creates a dish from the form and returns it.
func (m *MenuEditor) AddItem(ctx context.Context, in MenuItemInput) (models.MenuItem, error) {
	category := models.Category(in.Category)
	if !category.Valid() {
		category = models.CategoryMains
	}

	item := models.MenuItem{
		ID:           utils.NewID(now()),
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Price:        ParsePrice(in.Price),
		Category:     category,
		ImageURL:     in.ImageURL,
		IsVegetarian: in.IsVegetarian,
		IsSpicy:      in.IsSpicy,
	}
	return item, m.Add(ctx, item)
}

// Search returns the dishes whose name contains term, ignoring case. An empty term matches all.
func (m *MenuEditor) Search(term string) []models.MenuItem {
	return view.SearchItems(m.Snapshot(), term)
}

// Filter returns the dishes in category. CategoryAll matches everything.
func (m *MenuEditor) Filter(category models.Category) []models.MenuItem {
	return view.FilterItems(m.Snapshot(), category)
}

// ParsePrice reads a submitted price. Anything unparsable or negative becomes 0.
func ParsePrice(s string) float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

func formatPrice(p float64) string {
	if p <= 0 {
		return ""
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}
