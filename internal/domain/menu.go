package domain

import "time"

type MenuItem struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Description          string        `json:"description,omitempty"`
	Price                float64       `json:"price"`
	Category             string        `json:"category"`
	ImageURL             string        `json:"image_url,omitempty"`
	Allergens            []string      `json:"allergens,omitempty"`
	PreparationTime      int           `json:"preparation_time"` // minutes
	IsAvailable          bool          `json:"is_available"`
	CustomizationOptions []OptionGroup `json:"customization_options,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// OptionGroup is one named set of customizations on a menu item, e.g. "Size".
type OptionGroup struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Option is a single selectable modifier. Price is the surcharge added on top
// of the item's base price, zero for free modifiers.
type Option struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Customizations maps an option-group id to the option ids selected from it.
// Selection order is irrelevant and duplicates are not expected.
type Customizations map[string][]string
