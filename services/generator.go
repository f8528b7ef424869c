package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/paradise-cafe/ai"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/utils"
)

// Generator drafts copy and artwork for the admin add-item form. Failures yield nothing.
type Generator struct {
	engine ai.Engine
}

func NewGenerator(engine ai.Engine) *Generator {
	if engine == nil {
		engine = ai.Disabled{}
	}
	return &Generator{engine: engine}
}

// ItemDetails returns nil when the name is blank or the engine fails.
func (g *Generator) ItemDetails(ctx context.Context, name string, category models.Category) *ai.ItemDetails {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if !category.Valid() {
		category = models.CategoryMains
	}

	details, err := g.engine.ItemDetails(ctx, name, category)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("item", name).Warn("item detail generation failed")
		return nil
	}
	if details != nil && details.SuggestedPrice < 0 {
		details.SuggestedPrice = 0
	}
	return details
}

// ItemImage returns a data URL, or "" when the name is blank or the engine fails.
func (g *Generator) ItemImage(ctx context.Context, name, description string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	img, err := g.engine.ItemImage(ctx, name, strings.TrimSpace(description))
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("item", name).Warn("item image generation failed")
		return ""
	}
	return img
}

// DraftItem fills a form with generated details and an image. Whatever fails is left blank.
func (g *Generator) DraftItem(ctx context.Context, name string, category models.Category) MenuItemInput {
	in := MenuItemInput{Name: strings.TrimSpace(name), Category: string(category)}

	details := g.ItemDetails(ctx, name, category)
	if details != nil {
		in.Description = details.Description
		in.Price = formatPrice(details.SuggestedPrice)
		in.IsVegetarian = details.IsVegetarian
		in.IsSpicy = details.IsSpicy
	}
	in.ImageURL = g.ItemImage(ctx, name, in.Description)
	return in
}
