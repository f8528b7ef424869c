package models

// Offer is a promotion shown on the storefront.
type Offer struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Code           string `json:"code,omitempty"`
	DiscountAmount string `json:"discountAmount,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
}

func (o Offer) GetID() string {
	return o.ID
}
