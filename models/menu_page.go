package models

// MenuPage is a scanned page of the printed menu. When any exist the storefront shows them
// instead of the itemized dishes.
type MenuPage struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
}

func (p MenuPage) GetID() string {
	return p.ID
}
