package models

// MenuItem is one dish on the itemized menu.
type MenuItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Category     Category `json:"category"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	IsVegetarian bool     `json:"isVegetarian,omitempty"`
	IsSpicy      bool     `json:"isSpicy,omitempty"`
}

func (m MenuItem) GetID() string {
	return m.ID
}

// MenuProjection is the reduced view of a MenuItem handed to the suggestion engine.
// Price and dietary flags are left out on purpose.
type MenuProjection struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

func (m MenuItem) Projection() MenuProjection {
	return MenuProjection{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
	}
}
