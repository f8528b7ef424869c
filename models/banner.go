package models

// Banner is a hero image on the storefront, optionally captioned.
type Banner struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
}

func (b Banner) GetID() string {
	return b.ID
}
