// Package ai is the boundary to the external suggestion engine and content generator.
package ai

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/yeremiapane/paradise-cafe/models"
)

var ErrDisabled = errors.New("ai engine not configured")

// Suggestion is one item the engine picked for a guest, with its reasoning.
type Suggestion struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

// ItemDetails is generated copy for a new dish.
type ItemDetails struct {
	Description    string  `json:"description"`
	SuggestedPrice float64 `json:"suggestedPrice"`
	IsVegetarian   bool    `json:"isVegetarian"`
	IsSpicy        bool    `json:"isSpicy"`
}

type Engine interface {
	Suggest(ctx context.Context, query string, menu []models.MenuProjection) ([]Suggestion, error)
	ItemDetails(ctx context.Context, name string, category models.Category) (*ItemDetails, error)
	// ItemImage returns a data URL, or "" when the model produced no image.
	ItemImage(ctx context.Context, name, description string) (string, error)
}

// Disabled is used when no API key is configured.
type Disabled struct{}

func (Disabled) Suggest(context.Context, string, []models.MenuProjection) ([]Suggestion, error) {
	return nil, ErrDisabled
}

func (Disabled) ItemDetails(context.Context, string, models.Category) (*ItemDetails, error) {
	return nil, ErrDisabled
}

func (Disabled) ItemImage(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

// stripFences removes a markdown code fence around a JSON answer.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
