package view

import (
	"strings"

	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/utils"
)

const (
	FallbackHeroTitle    = "Paradise"
	FallbackHeroSubtitle = "Defining the modern era of culinary luxury in Jammu & Kashmir."
)

// State is everything the site knows, as mirrored from the store.
type State struct {
	MenuItems []models.MenuItem         `json:"menuItems"`
	Banners   []models.Banner           `json:"banners"`
	Offers    []models.Offer            `json:"offers"`
	MenuPages []models.MenuPage         `json:"menuPages"`
	Settings  models.RestaurantSettings `json:"settings"`
}

type Hero struct {
	Banner   *models.Banner `json:"banner,omitempty"`
	Index    int            `json:"index"`
	Count    int            `json:"count"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
}

type DisplayItem struct {
	models.MenuItem
	DisplayPrice string `json:"displayPrice"`
}

// Storefront is the composed public page.
type Storefront struct {
	Hero       Hero                      `json:"hero"`
	Offers     []models.Offer            `json:"offers"`
	Settings   models.RestaurantSettings `json:"settings"`
	Categories []models.Category         `json:"categories"`
	Category   models.Category           `json:"category"`
	// Exactly one of MenuPages and Items is shown: scanned pages win when any exist.
	ShowPages bool              `json:"showPages"`
	MenuPages []models.MenuPage `json:"menuPages,omitempty"`
	Items     []DisplayItem     `json:"items,omitempty"`
}

// Admin is the composed dashboard.
type Admin struct {
	State
	Search      string            `json:"search"`
	SearchItems []models.MenuItem `json:"searchItems"`
	Categories  []models.Category `json:"categories"`
}

// Page is what one UI currently shows.
type Page struct {
	Mode       Mode        `json:"mode"`
	Storefront *Storefront `json:"storefront,omitempty"`
	Admin      *Admin      `json:"admin,omitempty"`
}

// ComposeStorefront builds the public page for the banner at bannerIndex and the selected category.
func ComposeStorefront(s State, category models.Category, bannerIndex int) Storefront {
	if category == "" || (category != models.CategoryAll && !category.Valid()) {
		category = models.CategoryAll
	}

	page := Storefront{
		Hero:       composeHero(s.Banners, bannerIndex),
		Offers:     nonNil(s.Offers),
		Settings:   s.Settings,
		Categories: models.FilterCategories,
		Category:   category,
	}

	if len(s.MenuPages) > 0 {
		page.ShowPages = true
		page.MenuPages = s.MenuPages
		return page
	}

	filtered := FilterItems(s.MenuItems, category)
	page.Items = make([]DisplayItem, len(filtered))
	for i, item := range filtered {
		page.Items[i] = DisplayItem{MenuItem: item, DisplayPrice: utils.FormatCurrencyINR(item.Price)}
	}
	return page
}

// ComposeAdmin builds the dashboard with the menu search applied.
func ComposeAdmin(s State, search string) Admin {
	return Admin{
		State:       s,
		Search:      search,
		SearchItems: SearchItems(s.MenuItems, search),
		Categories:  models.Categories,
	}
}

// Compose builds the page for mode.
func Compose(mode Mode, s State, category models.Category, bannerIndex int, search string) Page {
	if mode == ModeAdmin {
		admin := ComposeAdmin(s, search)
		return Page{Mode: mode, Admin: &admin}
	}
	sf := ComposeStorefront(s, category, bannerIndex)
	return Page{Mode: ModeStorefront, Storefront: &sf}
}

func composeHero(banners []models.Banner, index int) Hero {
	hero := Hero{Count: len(banners), Title: FallbackHeroTitle, Subtitle: FallbackHeroSubtitle}
	if len(banners) == 0 {
		return hero
	}
	if index < 0 || index >= len(banners) {
		index = 0
	}

	b := banners[index]
	hero.Banner = &b
	hero.Index = index
	if b.Title != "" {
		hero.Title = b.Title
	}
	if b.Subtitle != "" {
		hero.Subtitle = b.Subtitle
	}
	return hero
}

// SearchItems returns the dishes whose name contains term, ignoring case. An empty term matches all.
func SearchItems(items []models.MenuItem, term string) []models.MenuItem {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if term == "" || strings.Contains(strings.ToLower(item.Name), term) {
			out = append(out, item)
		}
	}
	return out
}

// FilterItems returns the dishes in category. CategoryAll matches everything.
func FilterItems(items []models.MenuItem, category models.Category) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if category == "" || category == models.CategoryAll || item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
