package models

// Category is the closed set of menu sections.
type Category string

const (
	CategoryStarters Category = "Starters"
	CategoryMains    Category = "Mains"
	CategoryDesserts Category = "Desserts"
	CategoryDrinks   Category = "Drinks"
	CategorySpecials Category = "Specials"

	// CategoryAll is the storefront filter value that matches every item. It is never stored.
	CategoryAll Category = "All"
)

// Categories lists every storable category in menu order.
var Categories = []Category{
	CategoryStarters,
	CategoryMains,
	CategoryDesserts,
	CategoryDrinks,
	CategorySpecials,
}

// FilterCategories are the tabs offered on the storefront.
var FilterCategories = []Category{
	CategoryAll,
	CategoryStarters,
	CategoryMains,
	CategoryDesserts,
	CategoryDrinks,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
