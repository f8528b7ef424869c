package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/paradise-cafe/ingest"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/store"
	"github.com/yeremiapane/paradise-cafe/utils"
)

var ErrOfferIncomplete = errors.New("offer needs a title and a description")

type OfferInput struct {
	Title          string              `form:"title"`
	Description    string              `form:"description"`
	Code           string              `form:"code"`
	DiscountAmount string              `form:"discountAmount"`
	Image          ingest.ImagePayload `form:"-"`
}

type OfferEditor struct {
	*Editor[models.Offer]
}

func NewOfferEditor(gw *store.Gateway, monitor *WriteMonitor) *OfferEditor {
	return &OfferEditor{Editor: NewEditor[models.Offer](gw, models.CollectionOffers, monitor)}
}

// CreateOffer appends an offer. Title and description are required; nothing is written otherwise.
func (o *OfferEditor) CreateOffer(ctx context.Context, in OfferInput) (models.Offer, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return models.Offer{}, ErrOfferIncomplete
	}

	offer := models.Offer{
		ID:             utils.NewID(now()),
		Title:          title,
		Description:    description,
		Code:           strings.TrimSpace(in.Code),
		DiscountAmount: strings.TrimSpace(in.DiscountAmount),
	}
	if in.Image.Valid() {
		offer.ImageURL = string(in.Image)
	}
	return offer, o.Add(ctx, offer)
}
