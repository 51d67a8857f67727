package model

import "time"

// Menu categories.
const (
	CategoryCoffee      = "coffee"
	CategoryTea         = "tea"
	CategoryPastry      = "pastry"
	CategoryMerchandise = "merchandise"
)

var categories = map[string]struct{}{
	CategoryCoffee:      {},
	CategoryTea:         {},
	CategoryPastry:      {},
	CategoryMerchandise: {},
}

// ValidCategory reports whether the given category is a known menu
// category.
func ValidCategory(category string) bool {
	_, ok := categories[category]
	return ok
}

// Customization is one configurable aspect of a menu item, such as milk
// type or size, with the options the customer can pick from. The price
// modifier, when set, is the surcharge applied per line for the choice.
type Customization struct {
	Name          string   `json:"name"`
	Options       []string `json:"options"`
	PriceModifier float64  `json:"priceModifier,omitempty"`
}

// MenuItem represents one catalogue entry. Customizations are stored as
// a JSON column alongside the item.
type MenuItem struct {
	ID             string          `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Description    string          `json:"description" db:"description"`
	Price          float64         `json:"price" db:"price"`
	Category       string          `json:"category" db:"category"`
	ImageURL       string          `json:"imageUrl,omitempty" db:"image_url"`
	Customizations []Customization `json:"customizations,omitempty" db:"customizations"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}
