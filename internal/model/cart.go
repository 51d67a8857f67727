package model

// CartItem is one line of a cart: a snapshot of the menu item at the
// price it had when added, a quantity, and the customer's chosen
// customizations.
type CartItem struct {
	MenuItem            MenuItem          `json:"menuItem"`
	Quantity            int               `json:"quantity"`
	Customizations      map[string]string `json:"customizations,omitempty"`
	SpecialInstructions string            `json:"specialInstructions,omitempty"`
}

// LineTotal returns price times quantity for this line.
func (c CartItem) LineTotal() float64 {
	return c.MenuItem.Price * float64(c.Quantity)
}

// SameLine reports whether another line refers to the same menu item
// with identical customizations and instructions, meaning the two
// quantities can be merged into one line.
func (c CartItem) SameLine(other CartItem) bool {
	if c.MenuItem.ID != other.MenuItem.ID {
		return false
	}
	if c.SpecialInstructions != other.SpecialInstructions {
		return false
	}
	if len(c.Customizations) != len(other.Customizations) {
		return false
	}
	for k, v := range c.Customizations {
		if other.Customizations[k] != v {
			return false
		}
	}
	return true
}

// Cart is a user's cart with its computed total.
type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}
